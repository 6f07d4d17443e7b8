// Package mcp exposes a running simulation as an MCP tool server, so model
// agents can drive episodes over stdio or SSE.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hexlattice/skirmish"
	"github.com/hexlattice/skirmish/pkg/domain"
)

// Simulator defines the slice of the simulation facade the MCP tools drive.
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

// StateResponse is the structured result of episode_reset and episode_state.
type StateResponse struct {
	EpisodeID   string               `json:"episode_id" jsonschema_description:"Identifier of the current episode"`
	Status      domain.EpisodeStatus `json:"status" jsonschema_description:"Episode lifecycle status"`
	Step        int                  `json:"step" jsonschema_description:"Completed steps this episode"`
	HostStates  []string             `json:"host_states" jsonschema_description:"Current state of each host"`
	AgentStates map[string]string    `json:"agent_states" jsonschema_description:"Current DFA state of each agent"`
}

// Server wraps a simulator and exposes it as an MCP Server.
type Server struct {
	sim       Simulator
	mu        sync.Mutex
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(sim Simulator) *Server {
	s := &Server{
		sim:       sim,
		mcpServer: server.NewMCPServer("skirmish-mcp", skirmish.Version),
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: episode_reset
	resetTool := mcp.NewTool("episode_reset",
		mcp.WithDescription("Start a fresh episode: all hosts and agents return to their initial states."),
		mcp.WithOutputSchema[StateResponse](),
	)
	s.mcpServer.AddTool(resetTool, mcp.NewStructuredToolHandler(s.handleReset))

	// TOOL: episode_step
	stepTool := mcp.NewTool("episode_step",
		mcp.WithDescription("Advance the episode by one step: every agent acts, then reactive rules fire."),
		mcp.WithOutputSchema[domain.StepSummary](),
	)
	s.mcpServer.AddTool(stepTool, mcp.NewStructuredToolHandler(s.handleStep))

	// TOOL: episode_state
	stateTool := mcp.NewTool("episode_state",
		mcp.WithDescription("Read the current episode state without advancing it."),
		mcp.WithOutputSchema[StateResponse](),
	)
	s.mcpServer.AddTool(stateTool, mcp.NewStructuredToolHandler(s.handleState))

	// TOOL: episode_trace
	s.mcpServer.AddTool(mcp.NewTool("episode_trace",
		mcp.WithDescription("Get the full step-by-step trace of the current episode."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s.mu.Lock()
		trace := s.sim.Trace()
		s.mu.Unlock()
		jsonBytes, _ := json.Marshal(trace)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: scenario_describe
	s.mcpServer.AddTool(mcp.NewTool("scenario_describe",
		mcp.WithDescription("Describe the loaded scenario: hosts, state alphabets, agents and their actions."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, err := json.Marshal(s.sim.Scenario())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("describe failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

func (s *Server) handleReset(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (StateResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sim.Reset()
	return s.stateResponse(), nil
}

func (s *Server) handleStep(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (domain.StepSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum, err := s.sim.Step(ctx)
	if err != nil {
		return domain.StepSummary{}, fmt.Errorf("step failed: %w", err)
	}
	return *sum, nil
}

func (s *Server) handleState(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (StateResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateResponse(), nil
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
