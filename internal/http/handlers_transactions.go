package http

import (
	"net/http"

	"tirelire/internal/core"
)

type transactionRequest struct {
	Type             string   `json:"type"`
	Amount           string   `json:"amount"`
	Description      string   `json:"description"`
	Category         string   `json:"category"`
	Subcategory      string   `json:"subcategory,omitempty"`
	FromAccount      string   `json:"fromAccount,omitempty"`
	ToAccount        string   `json:"toAccount,omitempty"`
	Date             string   `json:"date,omitempty"`
	IsRecurring      bool     `json:"isRecurring,omitempty"`
	RecurringPattern string   `json:"recurringPattern,omitempty"`
	Tags             []string `json:"tags,omitempty"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	snap, err := s.currentSnapshot(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, snap.Bundle.Transactions)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	snap, err := s.currentSnapshot(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req transactionRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	draft := core.Transaction{
		Type:             core.TransactionType(req.Type),
		Amount:           amount,
		Description:      sanitizeInput(req.Description),
		Category:         sanitizeInput(req.Category),
		Subcategory:      sanitizeInput(req.Subcategory),
		FromAccount:      req.FromAccount,
		ToAccount:        req.ToAccount,
		Date:             date,
		IsRecurring:      req.IsRecurring,
		RecurringPattern: req.RecurringPattern,
		Tags:             req.Tags,
	}
	if err := draft.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	tx, err := s.store.RecordTransaction(r.Context(), snap.User.ID, draft)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.invalidateUserCaches(snap.User.ID)
	writeData(w, http.StatusCreated, tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	snap, err := s.currentSnapshot(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.store.DeleteTransaction(r.Context(), snap.User.ID, r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.invalidateUserCaches(snap.User.ID)
	writeData(w, http.StatusOK, map[string]string{"status": "deleted"})
}
