package store

import (
	"context"
	"time"

	"tirelire/internal/core"
	applog "tirelire/internal/log"
)

// Export is the read-only projection of one user's full bundle, shaped for
// a downloadable JSON file. The password hash is stripped from the profile.
type Export struct {
	User         core.User          `json:"user"`
	Accounts     []core.Account     `json:"accounts"`
	Transactions []core.Transaction `json:"transactions"`
	SavingsGoals []core.SavingsGoal `json:"savingsGoals"`
	Budgets      []core.Budget      `json:"budgets"`
	Categories   []core.Category    `json:"categories"`
	ExportDate   time.Time          `json:"exportDate"`
}

// ExportBundle builds the export projection for one user. It is a pure
// read: the stored document is not touched.
func (s *Store) ExportBundle(ctx context.Context, userID string) (*Export, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.resolveUser(doc, userID)
	if err != nil {
		return nil, err
	}
	bundle, err := s.resolveUserData(doc, userID)
	if err != nil {
		return nil, err
	}

	profile := *user
	profile.PasswordHash = ""

	copied := copyBundle(bundle)
	export := &Export{
		User:         profile,
		Accounts:     copied.Accounts,
		Transactions: copied.Transactions,
		SavingsGoals: copied.SavingsGoals,
		Budgets:      copied.Budgets,
		Categories:   copied.Categories,
		ExportDate:   s.now(),
	}

	s.logger.InfoContext(ctx, "Bundle exported",
		applog.FieldUserID, userID,
		applog.FieldOperation, applog.OpExport)

	return export, nil
}
