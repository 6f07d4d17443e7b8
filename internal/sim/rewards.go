package sim

import (
	"github.com/hexlattice/skirmish/pkg/domain"
)

// RewardLedger accumulates per-agent reward totals across an episode.
type RewardLedger struct {
	totals map[string]float64
}

// NewRewardLedger starts an empty ledger.
func NewRewardLedger() *RewardLedger {
	return &RewardLedger{totals: make(map[string]float64)}
}

// Reset clears all totals.
func (l *RewardLedger) Reset() {
	l.totals = make(map[string]float64)
}

// Record adds one action's reward to the agent's total.
func (l *RewardLedger) Record(agent string, reward float64) {
	l.totals[agent] += reward
}

// Restore replaces the ledger contents, used when resuming a snapshot.
func (l *RewardLedger) Restore(totals map[string]float64) {
	l.totals = make(map[string]float64, len(totals))
	for agent, total := range totals {
		l.totals[agent] = total
	}
}

// Summary returns the per-agent totals and their sum.
func (l *RewardLedger) Summary() domain.RewardSummary {
	out := domain.RewardSummary{Totals: make(map[string]float64, len(l.totals))}
	for agent, total := range l.totals {
		out.Totals[agent] = total
		out.Total += total
	}
	return out
}
