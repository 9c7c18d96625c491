package http

import (
	"net/http"

	"tirelire/internal/core"
	"tirelire/internal/store"
)

type registerRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Currency  string `json:"currency"`
}

type loginRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

type sessionView struct {
	User    core.User    `json:"user"`
	Session core.Session `json:"session"`
}

// scrub returns the user with the credential hash removed. Handlers never
// serialize the stored hash.
func scrub(user core.User) core.User {
	user.PasswordHash = ""
	return user
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	reg := store.Registration{
		Username:  sanitizeInput(req.Username),
		Email:     sanitizeInput(req.Email),
		Password:  req.Password,
		FirstName: sanitizeInput(req.FirstName),
		LastName:  sanitizeInput(req.LastName),
		Currency:  core.Currency(req.Currency),
	}
	if err := reg.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	snap, err := s.store.Register(r.Context(), reg)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeData(w, http.StatusCreated, sessionView{
		User:    scrub(snap.User),
		Session: snap.Session,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	snap, err := s.store.Login(r.Context(), sanitizeInput(req.Username), req.Password, req.RememberMe)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, sessionView{
		User:    scrub(snap.User),
		Session: snap.Session,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	snap, err := s.currentSnapshot(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Logout(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.invalidateUserCaches(snap.User.ID)
	writeData(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	snap, err := s.currentSnapshot(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, sessionView{
		User:    scrub(snap.User),
		Session: snap.Session,
	})
}
