package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/growthops/leadops-cli/internal/cache"
	"github.com/growthops/leadops-cli/internal/model"
	"github.com/growthops/leadops-cli/internal/pipeline"
	"github.com/growthops/leadops-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the funnel report as a read-only JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		snap, err := initSnapshotCache(st)
		if err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           newRouter(st, snap),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func newRouter(st store.Store, snap *cache.CrmSnapshot) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/api/v1/report", reportHandler(st, snap))

	return r
}

func reportHandler(st store.Store, snap *cache.CrmSnapshot) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		r, err := rangeFromQuery(req)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		labeled, err := st.ListLabeledLeads(req.Context(), r)
		if err != nil {
			zap.L().Error("list leads failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "warehouse unavailable"})
			return
		}

		crmRecs, _, err := snap.Get(req.Context())
		if err != nil {
			zap.L().Error("crm snapshot failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "crm snapshot unavailable"})
			return
		}

		writeJSON(w, http.StatusOK, pipeline.Run(labeled, crmRecs, r))
	}
}

func rangeFromQuery(req *http.Request) (model.DateRange, error) {
	now := time.Now()
	start := model.DefaultReportStart(now)
	end := model.DefaultReportEnd(now)

	if s := req.URL.Query().Get("start"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return model.DateRange{}, eris.Errorf("invalid start date %q", s)
		}
		start = t
	}
	if e := req.URL.Query().Get("end"); e != "" {
		t, err := time.Parse("2006-01-02", e)
		if err != nil {
			return model.DateRange{}, eris.Errorf("invalid end date %q", e)
		}
		end = t
	}

	r := model.NewDateRange(start, end)
	if !r.IsValid() {
		return model.DateRange{}, eris.New("start date is after end date")
	}
	return r, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
