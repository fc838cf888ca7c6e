package httpd

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/skillchain/originality-service/internal/service"
	"github.com/skillchain/originality-service/internal/worker"
)

type Handler struct {
	originalityService service.OriginalityService
	verificationWorker worker.VerificationWorker
	logger             zerolog.Logger
}

func NewHandler(
	originalityService service.OriginalityService,
	verificationWorker worker.VerificationWorker,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		originalityService: originalityService,
		verificationWorker: verificationWorker,
		logger:             logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.HealthCheck)
	router.Get("/status", h.GetServiceStatus)

	router.Route("/api/v1", func(api chi.Router) {
		api.Route("/verify", func(r chi.Router) {
			r.Post("/", h.Verify)
			r.Post("/report", h.VerifyReport)
		})
		api.Post("/answer-key", h.MatchAnswerKey)
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error":   http.StatusText(status),
		"message": message,
	})
}

func writeSuccess(w http.ResponseWriter, data interface{}) {
	response := map[string]interface{}{
		"success": true,
		"data":    data,
	}
	writeJSON(w, http.StatusOK, response)
}
