package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/hexlattice/skirmish"
	"github.com/hexlattice/skirmish/internal/logging"
	"github.com/hexlattice/skirmish/internal/metrics"
	httpAdapter "github.com/hexlattice/skirmish/pkg/adapters/http"
	redisAdapter "github.com/hexlattice/skirmish/pkg/adapters/redis"
)

var serveCmd = &cobra.Command{
	Use:   "serve [scenario]",
	Short: "Serve the simulation over a REST API",
	Long: `Loads the scenario and exposes the episode lifecycle over HTTP:
reset, step, state, trace, rewards and (with a store) save/resume.
Prometheus metrics are published on /metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")
		redisAddr, _ := cmd.Flags().GetString("redis")

		logger := logging.NewJSON(os.Stderr, slog.LevelInfo)

		reg := prometheus.NewRegistry()
		collector := metrics.NewCollector(reg)

		opts := []skirmish.Option{
			skirmish.WithLogger(logger),
			skirmish.WithLifecycleHooks(collector.Hooks()),
		}
		if redisAddr != "" {
			opts = append(opts, skirmish.WithStore(redisAdapter.New(redisAddr)))
		}

		sim, err := skirmish.Load(scenarioPath(cmd, args), opts...)
		if err != nil {
			fmt.Printf("Error initializing simulator: %v\n", err)
			os.Exit(1)
		}

		mux := http.NewServeMux()
		mux.Handle("/", httpAdapter.NewHandler(sim))
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: mux,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Skirmish Server on %s\n", srv.Addr)
			fmt.Printf("Scenario: %s\n", sim.Scenario().Name)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Skirmish Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("redis", "", "Redis address for episode persistence (e.g. localhost:6379)")
}
