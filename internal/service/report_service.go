package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"fin-guardian/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	SummaryToday = "today"
	SummaryWeek  = "week"
	SummaryMonth = "month"
)

type Summary struct {
	Period     string
	From       time.Time
	To         time.Time
	Income     decimal.Decimal
	Expense    decimal.Decimal
	Balance    decimal.Decimal
	ByCategory []models.CategoryTotal
}

// SpendingAnalysis is a rule-based reading of a period, optionally completed by LLM advice.
type SpendingAnalysis struct {
	From              time.Time
	To                time.Time
	Income            decimal.Decimal
	Expense           decimal.Decimal
	Balance           decimal.Decimal
	TransactionCount  int
	TopCategory       *models.CategoryTotal
	TopCategoryShare  decimal.Decimal
	ExpenseCategories int
	Findings          []string
	Advice            string
}

// Advisor turns a plain-text spending summary into advice.
type Advisor interface {
	Advise(ctx context.Context, summary string) (string, error)
}

type ReportService struct {
	transactions TransactionStore
	advisor      Advisor
	now          func() time.Time
	logger       *zap.Logger
}

// NewReportService accepts a nil advisor; analyses then carry rule-based findings only.
func NewReportService(transactions TransactionStore, advisor Advisor, logger *zap.Logger) *ReportService {
	return &ReportService{
		transactions: transactions,
		advisor:      advisor,
		now:          time.Now,
		logger:       logger,
	}
}

// Summary totals the user's money from the start of period until now. Unknown periods fall
// back to the current month.
func (s *ReportService) Summary(ctx context.Context, userID uuid.UUID, period string) (*Summary, error) {
	now := s.now()
	var from time.Time
	switch period {
	case SummaryToday:
		from = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case SummaryWeek:
		from = now.AddDate(0, 0, -7)
	default:
		period = SummaryMonth
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	}

	totals, err := s.transactions.TotalsByCategory(ctx, models.TransactionFilter{UserID: userID, From: &from, To: &now})
	if err != nil {
		return nil, err
	}

	summary := &Summary{Period: period, From: from, To: now, ByCategory: []models.CategoryTotal{}}
	for _, ct := range totals {
		if ct.Type == models.EntryTypeIncome {
			summary.Income = summary.Income.Add(ct.Total)
			continue
		}
		summary.Expense = summary.Expense.Add(ct.Total)
		summary.ByCategory = append(summary.ByCategory, ct)
	}
	summary.Balance = summary.Income.Sub(summary.Expense)
	return summary, nil
}

// Trend returns per-day income and expense between from and to, both inclusive.
func (s *ReportService) Trend(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.DailyTotal, error) {
	if to.Before(from) {
		return nil, ErrInvalidDateRange
	}
	days, err := s.transactions.DailyTotals(ctx, models.TransactionFilter{UserID: userID, From: &from, To: &to})
	if err != nil {
		return nil, err
	}
	if days == nil {
		days = []models.DailyTotal{}
	}
	return days, nil
}

// ExpensesByCategory returns expense totals per category, largest first.
func (s *ReportService) ExpensesByCategory(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.CategoryTotal, error) {
	if to.Before(from) {
		return nil, ErrInvalidDateRange
	}
	expense := models.EntryTypeExpense
	totals, err := s.transactions.TotalsByCategory(ctx, models.TransactionFilter{UserID: userID, Type: &expense, From: &from, To: &to})
	if err != nil {
		return nil, err
	}
	if totals == nil {
		totals = []models.CategoryTotal{}
	}
	return totals, nil
}

// ExportCSV writes the user's transactions between from and to, newest first.
func (s *ReportService) ExportCSV(ctx context.Context, userID uuid.UUID, from, to time.Time, w io.Writer) error {
	if to.Before(from) {
		return ErrInvalidDateRange
	}
	txs, err := s.transactions.ListRange(ctx, models.TransactionFilter{UserID: userID, From: &from, To: &to})
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"created_at", "amount", "type", "description", "category"}); err != nil {
		return err
	}
	for _, tx := range txs {
		category := ""
		if tx.Category != nil {
			category = tx.Category.Name
		}
		record := []string{
			tx.CreatedAt.Format("2006-01-02 15:04"),
			tx.Amount.StringFixed(2),
			string(tx.Type),
			tx.Description,
			category,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Analyze reads the period with fixed rules and, when an advisor is configured, asks it for
// advice. Advisor failures are logged and leave Advice empty.
func (s *ReportService) Analyze(ctx context.Context, userID uuid.UUID, from, to time.Time) (*SpendingAnalysis, error) {
	if to.Before(from) {
		return nil, ErrInvalidDateRange
	}
	filter := models.TransactionFilter{UserID: userID, From: &from, To: &to}
	totals, err := s.transactions.TotalsByCategory(ctx, filter)
	if err != nil {
		return nil, err
	}

	a := &SpendingAnalysis{From: from, To: to}
	var expenses []models.CategoryTotal
	for _, ct := range totals {
		a.TransactionCount += ct.Count
		if ct.Type == models.EntryTypeIncome {
			a.Income = a.Income.Add(ct.Total)
			continue
		}
		a.Expense = a.Expense.Add(ct.Total)
		expenses = append(expenses, ct)
	}
	a.Balance = a.Income.Sub(a.Expense)
	a.ExpenseCategories = len(expenses)
	if len(expenses) > 0 && a.Expense.IsPositive() {
		top := expenses[0]
		a.TopCategory = &top
		a.TopCategoryShare = top.Total.Div(a.Expense).Mul(decimal.NewFromInt(100)).Round(1)
	}
	a.Findings = findings(a)

	if s.advisor != nil && a.TransactionCount > 0 {
		advice, err := s.advisor.Advise(ctx, describe(a, expenses))
		if err != nil {
			s.logger.Warn("Spending advice unavailable", zap.Error(err))
		} else {
			a.Advice = advice
		}
	}
	return a, nil
}

var bigSurplus = decimal.NewFromInt(1000)

func findings(a *SpendingAnalysis) []string {
	var out []string
	if a.TransactionCount == 0 {
		return []string{"No transactions in this period."}
	}

	if a.Balance.IsNegative() {
		out = append(out, fmt.Sprintf("Negative balance of %s: review non-essential spending and set stricter budgets.", a.Balance.Abs().StringFixed(2)))
	} else {
		out = append(out, fmt.Sprintf("Positive balance of %s.", a.Balance.StringFixed(2)))
		if a.Balance.GreaterThan(bigSurplus) {
			out = append(out, "The surplus is large enough to build an emergency fund or start a savings goal.")
		}
	}

	if a.TopCategory != nil {
		out = append(out, fmt.Sprintf("%q is the largest expense with %s (%s%% of expenses).",
			a.TopCategory.CategoryName, a.TopCategory.Total.StringFixed(2), a.TopCategoryShare.StringFixed(1)))
		if a.TopCategoryShare.GreaterThan(decimal.NewFromInt(40)) {
			out = append(out, "A single category takes a very large share of spending.")
		}
	}

	switch {
	case a.ExpenseCategories >= 5:
		out = append(out, fmt.Sprintf("Spending is spread over %d categories.", a.ExpenseCategories))
	case a.ExpenseCategories > 1:
		out = append(out, fmt.Sprintf("Spending is concentrated in %d categories.", a.ExpenseCategories))
	}
	return out
}

func describe(a *SpendingAnalysis, expenses []models.CategoryTotal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Period: %s to %s\n", a.From.Format("2006-01-02"), a.To.Format("2006-01-02"))
	fmt.Fprintf(&b, "Income: %s\nExpenses: %s\nBalance: %s\n", a.Income.StringFixed(2), a.Expense.StringFixed(2), a.Balance.StringFixed(2))
	b.WriteString("Expenses by category:\n")
	for _, ct := range expenses {
		fmt.Fprintf(&b, "- %s: %s (%d transactions)\n", ct.CategoryName, ct.Total.StringFixed(2), ct.Count)
	}
	return b.String()
}
