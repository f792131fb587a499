package api

import (
	"net/http"

	"github.com/vytor/puzzlequest/internal/models"
)

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := s.ReportService.Progress(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, progress)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.ReportService.Stats(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, stats)
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	result, err := s.ProgressionService.StartSession(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

func (s *Server) handleWeeklyReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.ReportService.WeeklyReport(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, report)
}

func (s *Server) handleLevel(w http.ResponseWriter, r *http.Request) {
	level, err := s.ReportService.LevelProgress(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, level)
}

func (s *Server) handleNextDifficulty(w http.ResponseWriter, r *http.Request) {
	difficulty, err := s.ReportService.NextDifficulty(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, struct {
		Difficulty models.Difficulty `json:"difficulty"`
	}{difficulty})
}
