package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Service   string `json:"service"`
}

const serviceName = "gophdrive"

// readyTimeout bounds the database ping of the readiness probe.
const readyTimeout = 2 * time.Second

type HealthHandler struct {
	db          Pinger
	promHandler http.Handler
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db, promHandler: promhttp.Handler()}
}

func (h *HealthHandler) Live(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Service:   serviceName,
	})
}

// Ready answers 503 while the database does not respond to a ping.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Service:   serviceName,
	}

	status := http.StatusOK
	if h.db == nil {
		resp.Status, status = "fail", http.StatusServiceUnavailable
	} else {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			resp.Status, status = "fail", http.StatusServiceUnavailable
		}
	}

	writeJSON(w, status, resp)
}

func (h *HealthHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	h.promHandler.ServeHTTP(w, r)
}
