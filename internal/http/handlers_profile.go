package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"tirelire/internal/core"
	"tirelire/internal/store"
)

type profileRequest struct {
	FirstName   string            `json:"firstName,omitempty"`
	LastName    string            `json:"lastName,omitempty"`
	Email       string            `json:"email,omitempty"`
	Avatar      string            `json:"avatar,omitempty"`
	Preferences *core.Preferences `json:"preferences,omitempty"`
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	snap, err := s.currentSnapshot(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req profileRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	update := store.ProfileUpdate{
		FirstName: sanitizeInput(req.FirstName),
		LastName:  sanitizeInput(req.LastName),
		Email:     sanitizeInput(req.Email),
		Avatar:    sanitizeInput(req.Avatar),
	}
	if req.Preferences != nil {
		update.Preferences = *req.Preferences
	}

	user, err := s.store.UpdateProfile(r.Context(), snap.User.ID, update)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.invalidateUserCaches(snap.User.ID)
	writeData(w, http.StatusOK, scrub(*user))
}

// handleExport streams the user's full bundle as a downloadable JSON file.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	snap, err := s.currentSnapshot(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	export, err := s.store.ExportBundle(r.Context(), snap.User.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	filename := fmt.Sprintf("tirelire-export-%s-%s.json",
		snap.User.Username, export.ExportDate.Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(export)
}
