package httpd

import (
	"net/http"
	"time"
)

var startTime = time.Now()

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "originality-service",
		"timestamp": time.Now().UTC(),
		"version":   "1.0.0",
	})
}

func (h *Handler) GetServiceStatus(w http.ResponseWriter, r *http.Request) {
	stats := h.verificationWorker.GetStats()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "running",
		"active_workers": stats.ActiveWorkers,
		"queue_length":   stats.QueueLength,
		"processed":      stats.TotalProcessed,
		"failed":         stats.FailedJobs,
		"uptime":         time.Since(startTime).String(),
		"timestamp":      time.Now().UTC(),
	})
}
