package api

import (
	"net/http"

	"github.com/vytor/puzzlequest/internal/errors"
	"github.com/vytor/puzzlequest/internal/models"
)

type practiceRequest struct {
	Difficulty models.Difficulty `json:"difficulty"`
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	set, err := s.DailyService.Today(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, set)
}

// handlePractice replaces today's set with a fresh practice set. The
// difficulty may be omitted to use the one from settings.
func (s *Server) handlePractice(w http.ResponseWriter, r *http.Request) {
	var req practiceRequest
	if err := decodeJSON(r, &req, true); err != nil {
		handleError(w, r, err)
		return
	}
	if req.Difficulty != "" && !req.Difficulty.Valid() {
		handleError(w, r, errors.NewValidationError("difficulty", "must be one of easy, medium, hard, expert"))
		return
	}

	set, err := s.DailyService.Practice(r.Context(), req.Difficulty)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, set)
}

func (s *Server) handleDailyAnswer(w http.ResponseWriter, r *http.Request) {
	var sub models.AnswerSubmission
	if err := decodeJSON(r, &sub, false); err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.DailyService.Submit(r.Context(), sub)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

func (s *Server) handleDailyClose(w http.ResponseWriter, r *http.Request) {
	result, err := s.DailyService.Close(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}
