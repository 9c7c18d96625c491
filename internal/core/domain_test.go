package core

import (
	"strings"
	"testing"
	"time"
)

func TestSessionIsValid(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		session Session
		want    bool
	}{
		{
			name:    "active and unexpired",
			session: Session{IsActive: true, ExpiresAt: now.Add(time.Hour)},
			want:    true,
		},
		{
			name:    "active but expired",
			session: Session{IsActive: true, ExpiresAt: now.Add(-time.Minute)},
			want:    false,
		},
		{
			name:    "inactive and unexpired",
			session: Session{IsActive: false, ExpiresAt: now.Add(time.Hour)},
			want:    false,
		},
		{
			name:    "expiry equals now",
			session: Session{IsActive: true, ExpiresAt: now},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.session.IsValid(now); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{
		Type:        Expense,
		Amount:      Money{Cents: 5000},
		Description: "courses",
		Category:    "Alimentation",
		FromAccount: "acc-1",
	}

	tests := []struct {
		name    string
		mutate  func(tx *Transaction)
		wantErr error
	}{
		{name: "valid expense", mutate: func(tx *Transaction) {}, wantErr: nil},
		{
			name:    "unknown type",
			mutate:  func(tx *Transaction) { tx.Type = "refund" },
			wantErr: ErrInvalidType,
		},
		{
			name:    "zero amount",
			mutate:  func(tx *Transaction) { tx.Amount = Money{} },
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			mutate:  func(tx *Transaction) { tx.Amount = Money{Cents: -100} },
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "blank description",
			mutate:  func(tx *Transaction) { tx.Description = "   " },
			wantErr: ErrEmptyDescription,
		},
		{
			name:    "description over 200 characters",
			mutate:  func(tx *Transaction) { tx.Description = strings.Repeat("a", 201) },
			wantErr: ErrDescriptionTooLong,
		},
		{
			name:    "blank category",
			mutate:  func(tx *Transaction) { tx.Category = "" },
			wantErr: ErrEmptyCategory,
		},
		{
			name:    "missing source account",
			mutate:  func(tx *Transaction) { tx.FromAccount = "" },
			wantErr: ErrMissingAccount,
		},
		{
			name: "transfer without destination",
			mutate: func(tx *Transaction) {
				tx.Type = Transfer
				tx.ToAccount = ""
			},
			wantErr: ErrMissingAccount,
		},
		{
			name: "transfer to same account",
			mutate: func(tx *Transaction) {
				tx.Type = Transfer
				tx.ToAccount = tx.FromAccount
			},
			wantErr: ErrSameAccount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid
			tt.mutate(&tx)
			if err := tx.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSavingsGoalValidate(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	valid := SavingsGoal{
		Name:         "Vacances",
		TargetAmount: Money{Cents: 20000},
		Priority:     PriorityMedium,
		Category:     "Voyage",
		TargetDate:   now.AddDate(0, 6, 0),
	}

	tests := []struct {
		name    string
		mutate  func(g *SavingsGoal)
		wantErr error
	}{
		{name: "valid goal", mutate: func(g *SavingsGoal) {}, wantErr: nil},
		{
			name:    "zero target",
			mutate:  func(g *SavingsGoal) { g.TargetAmount = Money{} },
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "current exceeds target",
			mutate:  func(g *SavingsGoal) { g.CurrentAmount = Money{Cents: 30000} },
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "negative current",
			mutate:  func(g *SavingsGoal) { g.CurrentAmount = Money{Cents: -1} },
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "past target date",
			mutate:  func(g *SavingsGoal) { g.TargetDate = now.AddDate(0, 0, -1) },
			wantErr: ErrInvalidTargetDate,
		},
		{
			name:    "bad priority",
			mutate:  func(g *SavingsGoal) { g.Priority = "urgent" },
			wantErr: ErrInvalidType,
		},
		{
			name: "auto transfer needs frequency",
			mutate: func(g *SavingsGoal) {
				g.AutoTransferAmount = Money{Cents: 1000}
				g.AutoTransferFrequency = ""
			},
			wantErr: ErrInvalidType,
		},
		{
			name: "auto transfer with frequency",
			mutate: func(g *SavingsGoal) {
				g.AutoTransferAmount = Money{Cents: 1000}
				g.AutoTransferFrequency = TransferMonthly
			},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := valid
			tt.mutate(&g)
			if err := g.Validate(now); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSavingsGoalRecomputeCompleted(t *testing.T) {
	g := SavingsGoal{TargetAmount: Money{Cents: 10000}, CurrentAmount: Money{Cents: 9999}}
	g.RecomputeCompleted()
	if g.IsCompleted {
		t.Error("goal one cent short should not be completed")
	}
	g.CurrentAmount = Money{Cents: 10000}
	g.RecomputeCompleted()
	if !g.IsCompleted {
		t.Error("goal at target should be completed")
	}
	g.CurrentAmount = Money{Cents: 12000}
	g.RecomputeCompleted()
	if !g.IsCompleted {
		t.Error("goal over target should stay completed")
	}
}
