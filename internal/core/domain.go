package core

import (
	"strings"
	"time"
)

// StorageKey is the fixed key the serialized document lives under.
const StorageKey = "budget_app_v2"

const (
	EUR Currency = "EUR"
	USD Currency = "USD"
	XOF Currency = "XOF"
)

const (
	AccountMain      AccountType = "main"
	AccountSavings   AccountType = "savings"
	AccountEmergency AccountType = "emergency"
)

const (
	Income   TransactionType = "income"
	Expense  TransactionType = "expense"
	Transfer TransactionType = "transfer"
	Savings  TransactionType = "savings"
)

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

const (
	TransferWeekly  TransferFrequency = "weekly"
	TransferMonthly TransferFrequency = "monthly"
)

type (
	Currency          string
	AccountType       string
	TransactionType   string
	Priority          string
	TransferFrequency string

	// Preferences is the per-user display and notification settings block.
	Preferences struct {
		Currency      Currency `json:"currency"`
		Language      string   `json:"language"`
		Theme         string   `json:"theme"`
		Notifications bool     `json:"notifications"`
	}

	User struct {
		ID           string      `json:"id"`
		Username     string      `json:"username"`
		Email        string      `json:"email"`
		PasswordHash string      `json:"passwordHash"`
		FirstName    string      `json:"firstName"`
		LastName     string      `json:"lastName"`
		Avatar       string      `json:"avatar,omitempty"`
		Preferences  Preferences `json:"preferences"`
		CreatedAt    time.Time   `json:"createdAt"`
		LastLogin    time.Time   `json:"lastLogin"`
		IsActive     bool        `json:"isActive"`
	}

	Session struct {
		UserID    string    `json:"userId"`
		SessionID string    `json:"sessionId"`
		LoginTime time.Time `json:"loginTime"`
		ExpiresAt time.Time `json:"expiresAt"`
		IsActive  bool      `json:"isActive"`
	}

	Account struct {
		ID          string      `json:"id"`
		UserID      string      `json:"userId"`
		Name        string      `json:"name"`
		Type        AccountType `json:"type"`
		Balance     Money       `json:"balance"`
		Currency    Currency    `json:"currency"`
		CreatedAt   time.Time   `json:"createdAt"`
		LastUpdated time.Time   `json:"lastUpdated"`
	}

	Transaction struct {
		ID               string          `json:"id"`
		UserID           string          `json:"userId"`
		Type             TransactionType `json:"type"`
		Amount           Money           `json:"amount"`
		Description      string          `json:"description"`
		Category         string          `json:"category"`
		Subcategory      string          `json:"subcategory,omitempty"`
		FromAccount      string          `json:"fromAccount,omitempty"`
		ToAccount        string          `json:"toAccount,omitempty"`
		Date             time.Time       `json:"date"`
		IsRecurring      bool            `json:"isRecurring"`
		RecurringPattern string          `json:"recurringPattern,omitempty"`
		Tags             []string        `json:"tags"`
		CreatedAt        time.Time       `json:"createdAt"`
	}

	SavingsGoal struct {
		ID                    string            `json:"id"`
		UserID                string            `json:"userId"`
		Name                  string            `json:"name"`
		Description           string            `json:"description"`
		TargetAmount          Money             `json:"targetAmount"`
		CurrentAmount         Money             `json:"currentAmount"`
		TargetDate            time.Time         `json:"targetDate"`
		Priority              Priority          `json:"priority"`
		Category              string            `json:"category"`
		AutoTransferAmount    Money             `json:"autoTransferAmount"`
		AutoTransferFrequency TransferFrequency `json:"autoTransferFrequency"`
		IsCompleted           bool              `json:"isCompleted"`
		CreatedAt             time.Time         `json:"createdAt"`
	}

	// BudgetCategory is one allocation line inside a Budget.
	BudgetCategory struct {
		CategoryID string `json:"categoryId"`
		Allocated  Money  `json:"allocated"`
		Spent      Money  `json:"spent"`
		Remaining  Money  `json:"remaining"`
	}

	// Budget is declared in the schema but has no mutation path; it is
	// preserved verbatim across save cycles and included in exports.
	Budget struct {
		ID             string           `json:"id"`
		UserID         string           `json:"userId"`
		Name           string           `json:"name"`
		Categories     []BudgetCategory `json:"categories"`
		Period         string           `json:"period"`
		StartDate      time.Time        `json:"startDate"`
		EndDate        time.Time        `json:"endDate"`
		TotalAllocated Money            `json:"totalAllocated"`
		TotalSpent     Money            `json:"totalSpent"`
		CreatedAt      time.Time        `json:"createdAt"`
	}

	// Category is an inert passthrough like Budget.
	Category struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Type        string `json:"type"`
		Icon        string `json:"icon"`
		Color       string `json:"color"`
		ParentID    string `json:"parentId,omitempty"`
		BudgetLimit Money  `json:"budgetLimit"`
		IsDefault   bool   `json:"isDefault"`
		UserID      string `json:"userId,omitempty"`
	}

	// Bundle is the per-user collection block under userData.
	Bundle struct {
		Accounts     []Account     `json:"accounts"`
		Transactions []Transaction `json:"transactions"`
		SavingsGoals []SavingsGoal `json:"savingsGoals"`
		Budgets      []Budget      `json:"budgets"`
		Categories   []Category    `json:"categories"`
	}

	Settings struct {
		AppVersion      string   `json:"appVersion"`
		DefaultCurrency Currency `json:"defaultCurrency"`
		// SessionTimeout is kept in milliseconds for compatibility with
		// the stored document format.
		SessionTimeout int64 `json:"sessionTimeout"`
	}

	Metadata struct {
		Version    string `json:"version"`
		LastBackup string `json:"lastBackup"`
		TotalUsers int    `json:"totalUsers"`
		CreatedAt  string `json:"createdAt"`
		// Revision increments on every successful save. A save whose
		// loaded revision no longer matches the stored one fails with
		// ErrConflict instead of silently dropping the other write.
		Revision int64 `json:"revision"`
	}

	// Document is the single root object holding all persisted state.
	Document struct {
		Users    []User             `json:"users"`
		Sessions []Session          `json:"sessions"`
		UserData map[string]*Bundle `json:"userData"`
		Settings Settings           `json:"settings"`
		Metadata Metadata           `json:"metadata"`
	}
)

// IsValid reports whether a session counts as active: the flag is set and
// the expiry instant has not passed. An expired session is never returned
// as active even when isActive is still true.
func (s Session) IsValid(now time.Time) bool {
	return s.IsActive && now.Before(s.ExpiresAt)
}

func (c Currency) IsValid() bool {
	switch c {
	case EUR, USD, XOF:
		return true
	default:
		return false
	}
}

func (t TransactionType) IsValid() bool {
	switch t {
	case Income, Expense, Transfer, Savings:
		return true
	default:
		return false
	}
}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

func (f TransferFrequency) IsValid() bool {
	switch f {
	case TransferWeekly, TransferMonthly:
		return true
	default:
		return false
	}
}

// Validate checks a transaction draft before it is recorded. Transfers must
// name two distinct accounts; existence of the accounts is checked by the
// store against the acting user's bundle.
func (t Transaction) Validate() error {
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return ErrDescriptionTooLong
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	switch t.Type {
	case Transfer:
		if t.FromAccount == "" || t.ToAccount == "" {
			return ErrMissingAccount
		}
		if t.FromAccount == t.ToAccount {
			return ErrSameAccount
		}
	case Income, Expense, Savings:
		if t.FromAccount == "" {
			return ErrMissingAccount
		}
	}
	return nil
}

// Validate checks a savings goal draft at creation time. The current amount
// may exceed the target later through accrual, but not at creation.
func (g SavingsGoal) Validate(now time.Time) error {
	if len(strings.TrimSpace(g.Name)) == 0 {
		return ErrEmptyDescription
	}
	if err := g.TargetAmount.Validate(); err != nil {
		return err
	}
	if g.CurrentAmount.Cents < 0 || g.CurrentAmount.Cents > g.TargetAmount.Cents {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(g.Category) == "" {
		return ErrEmptyCategory
	}
	if !g.Priority.IsValid() {
		return ErrInvalidType
	}
	if !g.TargetDate.After(now) {
		return ErrInvalidTargetDate
	}
	if g.AutoTransferAmount.Cents < 0 {
		return ErrInvalidAmount
	}
	if g.AutoTransferAmount.Cents > 0 && !g.AutoTransferFrequency.IsValid() {
		return ErrInvalidType
	}
	return nil
}

// RecomputeCompleted re-derives the completion flag from the two amounts.
func (g *SavingsGoal) RecomputeCompleted() {
	g.IsCompleted = g.CurrentAmount.Cents >= g.TargetAmount.Cents
}

// FindUser returns a pointer into the document's user slice, or nil.
func (d *Document) FindUser(userID string) *User {
	for i := range d.Users {
		if d.Users[i].ID == userID {
			return &d.Users[i]
		}
	}
	return nil
}

// FindAccount returns a pointer into the bundle's account slice, or nil.
func (b *Bundle) FindAccount(accountID string) *Account {
	for i := range b.Accounts {
		if b.Accounts[i].ID == accountID {
			return &b.Accounts[i]
		}
	}
	return nil
}

// FindGoal returns a pointer into the bundle's goal slice, or nil.
func (b *Bundle) FindGoal(goalID string) *SavingsGoal {
	for i := range b.SavingsGoals {
		if b.SavingsGoals[i].ID == goalID {
			return &b.SavingsGoals[i]
		}
	}
	return nil
}
