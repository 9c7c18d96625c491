package store

import (
	"context"
	"fmt"

	"tirelire/internal/core"
	applog "tirelire/internal/log"
)

// RecordTransaction appends a transaction to the user's history and applies
// its balance side effects. All effects land in one in-memory document
// before the single save: a transfer either moves both balances or neither.
//
// The amount is expected to be validated (> 0) by the caller; the store
// only enforces the account invariants it owns.
func (s *Store) RecordTransaction(ctx context.Context, userID string, draft core.Transaction) (*core.Transaction, error) {
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
	tx := draft
	tx.ID = s.newID()
	tx.UserID = userID
	tx.CreatedAt = now
	if tx.Date.IsZero() {
		tx.Date = now
	}
	if tx.Tags == nil {
		tx.Tags = []string{}
	}

	if err := s.applyBalanceEffect(bundle, tx, false); err != nil {
		return nil, err
	}
	bundle.Transactions = append(bundle.Transactions, tx)

	if err := s.save(ctx, doc, loadedRev); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Transaction recorded",
		applog.FieldUserID, userID,
		applog.FieldTxID, tx.ID,
		applog.FieldTxType, string(tx.Type),
		applog.FieldAmount, tx.Amount.Cents,
		applog.FieldOperation, applog.OpRecord)

	return &tx, nil
}

// DeleteTransaction removes a transaction by id and reverses its balance
// effect, so the running balances stay consistent with the remaining
// history.
func (s *Store) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	doc, err := s.Load(ctx)
	if err != nil {
		return err
	}
	loadedRev := doc.Metadata.Revision

	bundle, err := s.resolveUserData(doc, userID)
	if err != nil {
		return err
	}

	idx := -1
	for i := range bundle.Transactions {
		if bundle.Transactions[i].ID == transactionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return core.ErrTransactionNotFound
	}

	tx := bundle.Transactions[idx]
	if err := s.applyBalanceEffect(bundle, tx, true); err != nil {
		return err
	}
	bundle.Transactions = append(bundle.Transactions[:idx], bundle.Transactions[idx+1:]...)

	if err := s.save(ctx, doc, loadedRev); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Transaction deleted",
		applog.FieldUserID, userID,
		applog.FieldTxID, transactionID,
		applog.FieldOperation, applog.OpDelete)
	return nil
}

// applyBalanceEffect mutates account balances for a transaction. With
// reverse set, it undoes the effect instead. Account references must exist
// in the user's bundle; a transfer additionally needs two distinct
// accounts.
func (s *Store) applyBalanceEffect(bundle *core.Bundle, tx core.Transaction, reverse bool) error {
	amount := tx.Amount
	if reverse {
		amount = core.Money{Cents: -amount.Cents}
	}
	now := s.now()

	touch := func(a *core.Account) { a.LastUpdated = now }

	switch tx.Type {
	case core.Income:
		account := bundle.FindAccount(tx.FromAccount)
		if account == nil {
			return fmt.Errorf("%w: %s", core.ErrUnknownAccount, tx.FromAccount)
		}
		account.Balance = account.Balance.Add(amount)
		touch(account)

	case core.Expense, core.Savings:
		account := bundle.FindAccount(tx.FromAccount)
		if account == nil {
			return fmt.Errorf("%w: %s", core.ErrUnknownAccount, tx.FromAccount)
		}
		account.Balance = account.Balance.Sub(amount)
		touch(account)

	case core.Transfer:
		if tx.FromAccount == tx.ToAccount {
			return core.ErrSameAccount
		}
		from := bundle.FindAccount(tx.FromAccount)
		if from == nil {
			return fmt.Errorf("%w: %s", core.ErrUnknownAccount, tx.FromAccount)
		}
		to := bundle.FindAccount(tx.ToAccount)
		if to == nil {
			return fmt.Errorf("%w: %s", core.ErrUnknownAccount, tx.ToAccount)
		}
		from.Balance = from.Balance.Sub(amount)
		to.Balance = to.Balance.Add(amount)
		touch(from)
		touch(to)

	default:
		return core.ErrInvalidType
	}

	return nil
}
