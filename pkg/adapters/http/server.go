// Package http exposes a running simulation over a small REST API: reset,
// step, and read-only views of state, trace and rewards.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/hexlattice/skirmish/pkg/domain"
)

// Simulator defines the slice of the simulation facade the server drives.
type Simulator interface {
	Reset()
	Step(ctx context.Context) (*domain.StepSummary, error)
	Scenario() *domain.Scenario
	EpisodeID() string
	Status() domain.EpisodeStatus
	StepCount() int
	HostStates() []string
	AgentStates() map[string]string
	Rewards() domain.RewardSummary
	Trace() []domain.StepSummary
}

// Persistent is the optional facet a simulator exposes when an episode
// store is configured.
type Persistent interface {
	Save(ctx context.Context) error
	Resume(ctx context.Context, episodeID string) error
}

// Server drives one simulator. The engine is single-driver, so every
// handler serializes through one mutex.
type Server struct {
	sim Simulator
	mu  sync.Mutex
}

// StateResponse is the read model for GET /episode/state.
type StateResponse struct {
	EpisodeID   string               `json:"episode_id"`
	Status      domain.EpisodeStatus `json:"status"`
	Step        int                  `json:"step"`
	HostStates  []string             `json:"host_states"`
	AgentStates map[string]string    `json:"agent_states"`
}

// ScenarioResponse is the read model for GET /scenario.
type ScenarioResponse struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	HostStates  []string `json:"host_states"`
	Hosts       []string `json:"hosts"`
	Agents      []string `json:"agents"`
	Horizon     int      `json:"horizon"`
}

// NewHandler builds the HTTP handler for a simulator.
func NewHandler(sim Simulator) http.Handler {
	server := &Server{sim: sim}

	r := chi.NewRouter()
	r.Get("/scenario", server.GetScenario)
	r.Post("/episode/reset", server.ResetEpisode)
	r.Post("/episode/step", server.StepEpisode)
	r.Get("/episode/state", server.GetState)
	r.Get("/episode/trace", server.GetTrace)
	r.Get("/episode/rewards", server.GetRewards)
	r.Post("/episode/save", server.SaveEpisode)
	r.Post("/episode/{id}/resume", server.ResumeEpisode)
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetScenario handles GET /scenario.
func (s *Server) GetScenario(w http.ResponseWriter, r *http.Request) {
	sc := s.sim.Scenario()
	hosts := make([]string, len(sc.Hosts))
	for i, h := range sc.Hosts {
		hosts[i] = h.Name
	}
	agents := make([]string, len(sc.Agents))
	for i := range sc.Agents {
		agents[i] = sc.Agents[i].Name
	}
	writeJSON(w, http.StatusOK, ScenarioResponse{
		Name:        sc.Name,
		Description: sc.Description,
		HostStates:  sc.HostStates,
		Hosts:       hosts,
		Agents:      agents,
		Horizon:     sc.Horizon,
	})
}

// ResetEpisode handles POST /episode/reset.
func (s *Server) ResetEpisode(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sim.Reset()
	writeJSON(w, http.StatusOK, s.stateResponse())
}

// StepEpisode handles POST /episode/step.
func (s *Server) StepEpisode(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum, err := s.sim.Step(r.Context())
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrEpisodeNotStarted) || errors.Is(err, domain.ErrEpisodeFinished) {
			status = http.StatusConflict
		}
		slog.Warn("step failed", "err", err)
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// GetState handles GET /episode/state.
func (s *Server) GetState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.stateResponse())
}

// GetTrace handles GET /episode/trace.
func (s *Server) GetTrace(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.sim.Trace())
}

// GetRewards handles GET /episode/rewards.
func (s *Server) GetRewards(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.sim.Rewards())
}

// SaveEpisode handles POST /episode/save.
func (s *Server) SaveEpisode(w http.ResponseWriter, r *http.Request) {
	p, ok := s.sim.(Persistent)
	if !ok {
		writeJSON(w, http.StatusNotImplemented, map[string]string{"error": "persistence not supported"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := p.Save(r.Context()); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"episode_id": s.sim.EpisodeID()})
}

// ResumeEpisode handles POST /episode/{id}/resume.
func (s *Server) ResumeEpisode(w http.ResponseWriter, r *http.Request) {
	p, ok := s.sim.(Persistent)
	if !ok {
		writeJSON(w, http.StatusNotImplemented, map[string]string{"error": "persistence not supported"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "id")
	if err := p.Resume(r.Context(), id); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrEpisodeNotFound) {
			status = http.StatusNotFound
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.stateResponse())
}

func (s *Server) stateResponse() StateResponse {
	return StateResponse{
		EpisodeID:   s.sim.EpisodeID(),
		Status:      s.sim.Status(),
		Step:        s.sim.StepCount(),
		HostStates:  s.sim.HostStates(),
		AgentStates: s.sim.AgentStates(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "err", err)
	}
}
