package core

// CategoryAmount is an amount aggregated by category name.
type CategoryAmount struct {
	Category string `json:"category"`
	Amount   Money  `json:"amount"`
	Count    int    `json:"count"`
	// Percentage of the type total, rounded to the nearest whole percent.
	Percentage int `json:"percentage"`
}

// MonthAmount is one point of the income/expense time series.
type MonthAmount struct {
	Year     int   `json:"year"`
	Month    int   `json:"month"` // 1-12
	Income   Money `json:"income"`
	Expenses Money `json:"expenses"`
}

// GoalProgress is the per-goal view used on the dashboard.
type GoalProgress struct {
	GoalID        string `json:"goalId"`
	Name          string `json:"name"`
	TargetAmount  Money  `json:"targetAmount"`
	CurrentAmount Money  `json:"currentAmount"`
	// Percent saved toward the target, capped at 100.
	Percent     int  `json:"percent"`
	IsCompleted bool `json:"isCompleted"`
}

// DashboardStats is the compact summary for the current calendar month.
type DashboardStats struct {
	TotalBalance       Money          `json:"totalBalance"`
	MonthlyIncome      Money          `json:"monthlyIncome"`
	MonthlyExpenses    Money          `json:"monthlyExpenses"`
	TotalSaved         Money          `json:"totalSaved"`
	Goals              []GoalProgress `json:"goals"`
	RecentTransactions []Transaction  `json:"recentTransactions"`
}

// Report is the aggregate view for a selected period.
type Report struct {
	Period        string           `json:"period"` // month, quarter, year
	TotalIncome   Money            `json:"totalIncome"`
	TotalExpenses Money            `json:"totalExpenses"`
	ByCategory    []CategoryAmount `json:"byCategory"`
	IncomeByCat   []CategoryAmount `json:"incomeByCategory"`
	Monthly       []MonthAmount    `json:"monthly"`
}
