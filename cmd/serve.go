package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the ops HTTP server",
	Long:  "Exposes health, queue/coverage stats and an enqueue endpoint for operational tooling.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := newStoreEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		r := chi.NewRouter()
		r.Use(middleware.RealIP)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))

		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Get("/stats", func(w http.ResponseWriter, req *http.Request) {
			counts, err := env.queue.Counts(req.Context())
			if err != nil {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "queue counts unavailable"})
				return
			}
			coverage, err := env.companies.Coverage(req.Context())
			if err != nil {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "coverage unavailable"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"queue":    counts,
				"coverage": coverage,
			})
		})

		r.Post("/enqueue", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				CompanyID string `json:"company_id"`
				Priority  int    `json:"priority"`
			}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
				return
			}
			id, err := uuid.Parse(body.CompanyID)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "company_id must be a UUID"})
				return
			}
			inserted, err := env.queue.Enqueue(req.Context(), id, body.Priority)
			if err != nil {
				zap.L().Error("enqueue failed", zap.String("company_id", body.CompanyID), zap.Error(err))
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "enqueue failed"})
				return
			}
			if !inserted {
				writeJSON(w, http.StatusOK, map[string]string{"status": "already_queued"})
				return
			}
			writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
