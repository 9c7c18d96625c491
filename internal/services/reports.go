// Package services builds read-only views over a user's bundle: the
// dashboard summary and the periodic reports. Everything here is pure
// aggregation; no service ever writes back to the store.
package services

import (
	"fmt"
	"sort"
	"time"

	"tirelire/internal/core"
	applog "tirelire/internal/log"
)

// RecentTransactionCount is how many transactions the dashboard shows.
const RecentTransactionCount = 5

// MonthlySeriesLength is how many months the report time series covers.
const MonthlySeriesLength = 6

// ReportPeriods are the accepted values for a report period.
var ReportPeriods = map[string]bool{
	"month":   true,
	"quarter": true,
	"year":    true,
}

// ErrInvalidPeriod is returned for a period outside ReportPeriods.
var ErrInvalidPeriod = fmt.Errorf("invalid report period")

// ReportService aggregates bundles into dashboard and report views.
type ReportService struct {
	logger *applog.Logger

	// Overridable for tests.
	now func() time.Time
}

func NewReportService(logger *applog.Logger) *ReportService {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentReports)
	}
	return &ReportService{
		logger: logger,
		now:    time.Now,
	}
}

// Dashboard computes the summary view for the current calendar month.
func (s *ReportService) Dashboard(bundle core.Bundle) core.DashboardStats {
	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	stats := core.DashboardStats{
		Goals:              make([]core.GoalProgress, 0, len(bundle.SavingsGoals)),
		RecentTransactions: make([]core.Transaction, 0, RecentTransactionCount),
	}

	for _, account := range bundle.Accounts {
		stats.TotalBalance = stats.TotalBalance.Add(account.Balance)
	}

	for _, tx := range bundle.Transactions {
		if tx.Date.Before(monthStart) || tx.Date.After(now) {
			continue
		}
		switch tx.Type {
		case core.Income:
			stats.MonthlyIncome = stats.MonthlyIncome.Add(tx.Amount)
		case core.Expense:
			stats.MonthlyExpenses = stats.MonthlyExpenses.Add(tx.Amount)
		}
	}

	for _, goal := range bundle.SavingsGoals {
		stats.TotalSaved = stats.TotalSaved.Add(goal.CurrentAmount)
		stats.Goals = append(stats.Goals, goalProgress(goal))
	}

	recent := make([]core.Transaction, len(bundle.Transactions))
	copy(recent, bundle.Transactions)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Date.After(recent[j].Date)
	})
	if len(recent) > RecentTransactionCount {
		recent = recent[:RecentTransactionCount]
	}
	stats.RecentTransactions = append(stats.RecentTransactions, recent...)

	return stats
}

// BuildReport aggregates the user's transactions over the given period.
// Periods are calendar windows containing now: "month" is the current
// calendar month, "quarter" the current calendar quarter, "year" the
// current calendar year. The monthly series always covers the last
// MonthlySeriesLength calendar months regardless of the period filter.
func (s *ReportService) BuildReport(bundle core.Bundle, period string) (*core.Report, error) {
	if !ReportPeriods[period] {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
	}

	now := s.now()
	var since time.Time
	switch period {
	case "month":
		since = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	case "quarter":
		quarterStart := time.Month((int(now.Month())-1)/3*3 + 1)
		since = time.Date(now.Year(), quarterStart, 1, 0, 0, 0, 0, now.Location())
	case "year":
		since = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	}

	report := &core.Report{Period: period}
	expenseByCat := make(map[string]*core.CategoryAmount)
	incomeByCat := make(map[string]*core.CategoryAmount)

	for _, tx := range bundle.Transactions {
		if tx.Date.Before(since) || tx.Date.After(now) {
			continue
		}
		switch tx.Type {
		case core.Income:
			report.TotalIncome = report.TotalIncome.Add(tx.Amount)
			accumulate(incomeByCat, tx)
		case core.Expense:
			report.TotalExpenses = report.TotalExpenses.Add(tx.Amount)
			accumulate(expenseByCat, tx)
		}
	}

	report.ByCategory = finalize(expenseByCat, report.TotalExpenses)
	report.IncomeByCat = finalize(incomeByCat, report.TotalIncome)
	report.Monthly = monthlySeries(bundle.Transactions, now)

	s.logger.Debug("Report built",
		applog.FieldOperation, "report",
		"period", period,
		"categories", len(report.ByCategory))

	return report, nil
}

func accumulate(byCat map[string]*core.CategoryAmount, tx core.Transaction) {
	entry, ok := byCat[tx.Category]
	if !ok {
		entry = &core.CategoryAmount{Category: tx.Category}
		byCat[tx.Category] = entry
	}
	entry.Amount = entry.Amount.Add(tx.Amount)
	entry.Count++
}

// finalize orders categories by amount descending and derives percentages
// of the type total, rounded half-up.
func finalize(byCat map[string]*core.CategoryAmount, total core.Money) []core.CategoryAmount {
	out := make([]core.CategoryAmount, 0, len(byCat))
	for _, entry := range byCat {
		if total.Cents > 0 {
			entry.Percentage = int((entry.Amount.Cents*100 + total.Cents/2) / total.Cents)
		}
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// monthlySeries returns one point per calendar month for the last
// MonthlySeriesLength months, oldest first, including empty months.
func monthlySeries(transactions []core.Transaction, now time.Time) []core.MonthAmount {
	series := make([]core.MonthAmount, MonthlySeriesLength)
	index := make(map[string]*core.MonthAmount, MonthlySeriesLength)

	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).
		AddDate(0, -(MonthlySeriesLength - 1), 0)
	for i := range series {
		month := first.AddDate(0, i, 0)
		series[i] = core.MonthAmount{Year: month.Year(), Month: int(month.Month())}
		index[monthKey(month)] = &series[i]
	}

	for _, tx := range transactions {
		point, ok := index[monthKey(tx.Date)]
		if !ok {
			continue
		}
		switch tx.Type {
		case core.Income:
			point.Income = point.Income.Add(tx.Amount)
		case core.Expense:
			point.Expenses = point.Expenses.Add(tx.Amount)
		}
	}

	return series
}

func monthKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

func goalProgress(goal core.SavingsGoal) core.GoalProgress {
	percent := 0
	if goal.TargetAmount.Cents > 0 {
		percent = int(goal.CurrentAmount.Cents * 100 / goal.TargetAmount.Cents)
		if percent > 100 {
			percent = 100
		}
	}
	return core.GoalProgress{
		GoalID:        goal.ID,
		Name:          goal.Name,
		TargetAmount:  goal.TargetAmount,
		CurrentAmount: goal.CurrentAmount,
		Percent:       percent,
		IsCompleted:   goal.IsCompleted,
	}
}
