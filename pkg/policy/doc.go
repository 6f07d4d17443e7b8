// Package policy provides agent strategies behind the single
// ports.Policy capability: produce one action given externally owned
// state. The table-driven DFA policy is the canonical variant; the
// scripted, random and heuristic red/blue policies substitute for it
// behind the same contract.
package policy
