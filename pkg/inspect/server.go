package inspect

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	rerrors "github.com/vango-dev/reactor/internal/errors"
)

// Router returns the inspector's HTTP routes:
//
//	GET /healthz         liveness
//	GET /objects         snapshots of every watched object
//	GET /objects/{name}  snapshot of one object
//	GET /ws              websocket change feed
//	GET /metrics         Prometheus metrics, when a gatherer is configured
func (h *Hub) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/objects", func(w http.ResponseWriter, r *http.Request) {
		h.writeJSON(w, http.StatusOK, h.Snapshots())
	})
	r.Get("/objects/{name}", func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		snap, ok := h.Snapshot(name)
		if !ok {
			h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown object " + name})
			return
		}
		h.writeJSON(w, http.StatusOK, snap)
	})
	r.Get("/ws", h.handleFeed)
	if h.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func (h *Hub) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

// ListenAndServe serves the router on addr until ctx is cancelled, then
// shuts down gracefully and closes the hub.
func (h *Hub) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		h.logger.Info("inspect: listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		h.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return rerrors.New("R030").WithSubject(addr).Wrap(err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	h.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return rerrors.New("R030").WithSubject(addr).Wrap(err)
	}
	return nil
}
