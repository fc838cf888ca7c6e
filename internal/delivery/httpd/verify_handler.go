package httpd

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/skillchain/originality-service/internal/models"
)

func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Content == "" || req.AssignmentID == "" || req.StudentID == "" {
		writeError(w, http.StatusBadRequest, "All fields (content, assignment_id, student_id) are required")
		return
	}

	verdict, err := h.originalityService.Verify(r.Context(), req.Content, req.AssignmentID, req.StudentID)
	if err != nil {
		h.handleVerifyError(w, err)
		return
	}

	writeSuccess(w, verdict)
}

func (h *Handler) VerifyReport(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Content == "" || req.AssignmentID == "" || req.StudentID == "" {
		writeError(w, http.StatusBadRequest, "All fields (content, assignment_id, student_id) are required")
		return
	}

	verdict, err := h.originalityService.Verify(r.Context(), req.Content, req.AssignmentID, req.StudentID)
	if err != nil {
		h.handleVerifyError(w, err)
		return
	}

	writeSuccess(w, h.originalityService.GenerateReport(verdict))
}

func (h *Handler) MatchAnswerKey(w http.ResponseWriter, r *http.Request) {
	var req models.AnswerKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Content == "" || req.AnswerKey == "" {
		writeError(w, http.StatusBadRequest, "All fields (content, answer_key) are required")
		return
	}

	writeSuccess(w, h.originalityService.MatchAnswerKey(req.Content, req.AnswerKey))
}

func (h *Handler) handleVerifyError(w http.ResponseWriter, err error) {
	errMsg := err.Error()

	switch {
	case strings.Contains(errMsg, "internal corpus check failed"):
		h.logger.Error().Err(err).Msg("Submission corpus unavailable")
		writeError(w, http.StatusBadGateway, "Submission corpus unavailable")
	default:
		h.logger.Error().Err(err).Msg("Verification error")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
