package http

import (
	"net/http"
	"time"

	"tirelire/internal/core"
)

type goalRequest struct {
	Name                  string `json:"name"`
	Description           string `json:"description"`
	TargetAmount          string `json:"targetAmount"`
	InitialDeposit        string `json:"initialDeposit,omitempty"`
	SourceAccount         string `json:"sourceAccount,omitempty"`
	TargetDate            string `json:"targetDate"`
	Priority              string `json:"priority"`
	Category              string `json:"category"`
	AutoTransferAmount    string `json:"autoTransferAmount,omitempty"`
	AutoTransferFrequency string `json:"autoTransferFrequency,omitempty"`
}

type addFundsRequest struct {
	Amount        string `json:"amount"`
	SourceAccount string `json:"sourceAccount"`
	Description   string `json:"description,omitempty"`
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	snap, err := s.currentSnapshot(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, snap.Bundle.SavingsGoals)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	snap, err := s.currentSnapshot(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req goalRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	target, err := parseAmount(req.TargetAmount)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	targetDate, err := parseDate(req.TargetDate)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var deposit core.Money
	if req.InitialDeposit != "" {
		deposit, err = parseAmount(req.InitialDeposit)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	var autoTransfer core.Money
	if req.AutoTransferAmount != "" {
		autoTransfer, err = parseAmount(req.AutoTransferAmount)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	draft := core.SavingsGoal{
		Name:                  sanitizeInput(req.Name),
		Description:           sanitizeInput(req.Description),
		TargetAmount:          target,
		CurrentAmount:         deposit,
		TargetDate:            targetDate,
		Priority:              core.Priority(req.Priority),
		Category:              sanitizeInput(req.Category),
		AutoTransferAmount:    autoTransfer,
		AutoTransferFrequency: core.TransferFrequency(req.AutoTransferFrequency),
	}
	if err := draft.Validate(time.Now()); err != nil {
		s.writeError(w, r, err)
		return
	}

	goal, err := s.store.CreateSavingsGoal(r.Context(), snap.User.ID, draft, req.SourceAccount)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.invalidateUserCaches(snap.User.ID)
	writeData(w, http.StatusCreated, goal)
}

func (s *Server) handleAddFunds(w http.ResponseWriter, r *http.Request) {
	snap, err := s.currentSnapshot(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req addFundsRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	goal, err := s.store.AddFundsToGoal(r.Context(), snap.User.ID, r.PathValue("id"),
		amount, req.SourceAccount, sanitizeInput(req.Description))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.invalidateUserCaches(snap.User.ID)
	writeData(w, http.StatusOK, goal)
}
