package http

import (
	"net/http"
	"strings"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	snap, err := s.currentSnapshot(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	cacheKey := snap.User.ID + ":dashboard"
	if stats, ok := s.dashboardCache.Get(cacheKey); ok {
		writeData(w, http.StatusOK, stats)
		return
	}

	stats := s.reports.Dashboard(snap.Bundle)
	s.dashboardCache.Set(cacheKey, stats)
	writeData(w, http.StatusOK, stats)
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	snap, err := s.currentSnapshot(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	period := strings.TrimSpace(r.URL.Query().Get("period"))
	if period == "" {
		period = "month"
	}

	report, err := s.reports.BuildReport(snap.Bundle, period)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, report)
}
