package store

import (
	"context"
	"fmt"

	"tirelire/internal/core"
	applog "tirelire/internal/log"
)

// SavingsCategory is the category recorded on goal-funding transactions.
const SavingsCategory = "Épargne"

// CreateSavingsGoal appends a new goal. A positive CurrentAmount on the
// draft is an initial deposit: when a source account is given, the deposit
// is recorded as a savings transaction and debited from that account in the
// same save. No balance floor applies here; only AddFundsToGoal checks
// funds.
func (s *Store) CreateSavingsGoal(ctx context.Context, userID string, draft core.SavingsGoal, sourceAccountID string) (*core.SavingsGoal, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	loadedRev := doc.Metadata.Revision

	if _, err := s.resolveUser(doc, userID); err != nil {
		return nil, err
	}
	bundle, err := s.resolveUserData(doc, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	goal := draft
	goal.ID = s.newID()
	goal.UserID = userID
	goal.CreatedAt = now
	goal.RecomputeCompleted()

	deposit := goal.CurrentAmount
	if deposit.IsPositive() && sourceAccountID != "" {
		account := bundle.FindAccount(sourceAccountID)
		if account == nil {
			return nil, fmt.Errorf("%w: %s", core.ErrUnknownAccount, sourceAccountID)
		}
		account.Balance = account.Balance.Sub(deposit)
		account.LastUpdated = now

		bundle.Transactions = append(bundle.Transactions, core.Transaction{
			ID:          s.newID(),
			UserID:      userID,
			Type:        core.Savings,
			Amount:      deposit,
			Description: fmt.Sprintf("Dépôt initial pour %s", goal.Name),
			Category:    SavingsCategory,
			FromAccount: sourceAccountID,
			Date:        now,
			Tags:        []string{"épargne", "objectif"},
			CreatedAt:   now,
		})
	}

	bundle.SavingsGoals = append(bundle.SavingsGoals, goal)

	if err := s.save(ctx, doc, loadedRev); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Savings goal created",
		applog.FieldUserID, userID,
		applog.FieldGoalID, goal.ID,
		applog.FieldAmount, goal.TargetAmount.Cents,
		applog.FieldOperation, applog.OpRecord)

	return &goal, nil
}

// AddFundsToGoal moves amount from the source account into the goal. The
// funds check happens before any mutation; on failure nothing changes. On
// success the goal increment, the completion recompute, the account debit
// and the savings transaction all land in one save.
func (s *Store) AddFundsToGoal(ctx context.Context, userID, goalID string, amount core.Money, sourceAccountID, description string) (*core.SavingsGoal, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	loadedRev := doc.Metadata.Revision

	bundle, err := s.resolveUserData(doc, userID)
	if err != nil {
		return nil, err
	}

	goal := bundle.FindGoal(goalID)
	if goal == nil {
		return nil, core.ErrGoalNotFound
	}
	account := bundle.FindAccount(sourceAccountID)
	if account == nil {
		return nil, fmt.Errorf("%w: %s", core.ErrUnknownAccount, sourceAccountID)
	}
	if account.Balance.Cents < amount.Cents {
		return nil, core.ErrInsufficientFunds
	}

	now := s.now()
	goal.CurrentAmount = goal.CurrentAmount.Add(amount)
	goal.RecomputeCompleted()
	account.Balance = account.Balance.Sub(amount)
	account.LastUpdated = now

	if description == "" {
		description = fmt.Sprintf("Ajout de fonds pour %s", goal.Name)
	}
	bundle.Transactions = append(bundle.Transactions, core.Transaction{
		ID:          s.newID(),
		UserID:      userID,
		Type:        core.Savings,
		Amount:      amount,
		Description: description,
		Category:    SavingsCategory,
		FromAccount: sourceAccountID,
		Date:        now,
		Tags:        []string{"épargne"},
		CreatedAt:   now,
	})

	if err := s.save(ctx, doc, loadedRev); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Funds added to goal",
		applog.FieldUserID, userID,
		applog.FieldGoalID, goalID,
		applog.FieldAmount, amount.Cents,
		applog.FieldOperation, applog.OpUpdate)

	result := *goal
	return &result, nil
}
