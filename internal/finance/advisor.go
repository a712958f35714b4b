package finance

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/Dan9191/neuroledger/internal/models"
	"github.com/shopspring/decimal"
)

// Priority orders tips; lower values come first.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// Tip is one piece of advice.
type Tip struct {
	Icon     string   `json:"icon"`
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Priority Priority `json:"priority"`
}

// AdvisorInput is everything a rule may look at.
type AdvisorInput struct {
	State    models.AppState
	Snapshot models.MonthlySnapshot
	Month    models.MonthKey
	Today    models.Date
	// KeyRate is the reference annual interest rate in percent; zero when unknown.
	KeyRate float64
}

// Rule inspects the input and returns zero or more tips.
type Rule func(a *Advice) []Tip

// Advice is the input handed to each rule: the AdvisorInput plus quantities
// shared by several rules.
type Advice struct {
	AdvisorInput
	f            *Formatter
	incomes      []models.RecurringIncome
	salary       decimal.Decimal
	pending      []models.Bill
	totalPending decimal.Decimal
}

// DefaultRules is the rule set used by Advise, in evaluation order.
var DefaultRules = []Rule{
	ruleBillsBeforePayDay,
	rulePayAfterPayDay,
	ruleBudgetPace,
	ruleSavingsPotential,
	ruleTopCategory,
	ruleCategoryCuts,
	ruleOverdue,
	ruleEmergencyFund,
	ruleDueThisWeek,
	ruleGoalDeadline,
	ruleGoalAlmostReached,
	ruleImpulsive,
	ruleSingleIncome,
	ruleNoBudget,
	ruleNegativeProjection,
	rulePartialBills,
	ruleOpenReceivables,
	ruleWeekendSpending,
	ruleIdleSurplus,
}

// Advise evaluates rules (DefaultRules when none are given) and returns the
// tips stably ordered by priority. When no rule fires a single fallback tip is
// returned.
func Advise(in AdvisorInput, f *Formatter, rules ...Rule) []Tip {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	a := &Advice{AdvisorInput: in, f: f, incomes: in.State.ActiveIncomes(), salary: in.State.TotalActiveIncome(), totalPending: decimal.Zero}
	for _, b := range MonthBills(in.State.Bills, in.Month) {
		if b.Status != models.BillPaid {
			a.pending = append(a.pending, b)
			a.totalPending = a.totalPending.Add(Remaining(b))
		}
	}

	tips := []Tip{}
	for _, rule := range rules {
		tips = append(tips, rule(a)...)
	}
	if len(tips) == 0 {
		return []Tip{{
			Icon:     "info",
			Title:    "Add more data",
			Body:     "Register your recurring income, bills and daily expenses to get personalized tips.",
			Priority: PriorityLow,
		}}
	}
	sort.SliceStable(tips, func(i, j int) bool { return tips[i].Priority.rank() < tips[j].Priority.rank() })
	return tips
}

// Formatter renders money and percentages for tip bodies.
func (a *Advice) Formatter() *Formatter { return a.f }

// Salary is the sum of active recurring incomes.
func (a *Advice) Salary() decimal.Decimal { return a.salary }

// Pending returns the month's bills that are not fully paid.
func (a *Advice) Pending() []models.Bill { return a.pending }

// TotalPending is the remaining amount over Pending.
func (a *Advice) TotalPending() decimal.Decimal { return a.totalPending }

func (a *Advice) firstPayDay() int {
	first := math.MaxInt
	for _, inc := range a.incomes {
		first = min(first, inc.PayDay)
	}
	return first
}

func (a *Advice) share(amount decimal.Decimal) float64 {
	return ratio(amount, a.salary) * 100
}

func billList(bills []models.Bill, limit int, render func(models.Bill) string) string {
	parts := make([]string, 0, len(bills))
	for i, b := range bills {
		if limit > 0 && i == limit {
			break
		}
		parts = append(parts, render(b))
	}
	return strings.Join(parts, ", ")
}

func sumRemaining(bills []models.Bill) decimal.Decimal {
	total := decimal.Zero
	for _, b := range bills {
		total = total.Add(Remaining(b))
	}
	return total
}

func ruleBillsBeforePayDay(a *Advice) []Tip {
	if len(a.incomes) == 0 {
		return nil
	}
	payDay := a.firstPayDay()
	var before []models.Bill
	for _, b := range a.pending {
		if b.DueDate.Day() < payDay {
			before = append(before, b)
		}
	}
	if len(before) == 0 {
		return nil
	}
	return []Tip{{
		Icon:  "clock",
		Title: fmt.Sprintf("%d bill(s) due before payday", len(before)),
		Body: fmt.Sprintf("Your income arrives on day %d, but %s fall due earlier. Set aside %s from last month.",
			payDay, billList(before, 0, func(b models.Bill) string { return b.Title }), a.f.Money(sumRemaining(before))),
		Priority: PriorityHigh,
	}}
}

func rulePayAfterPayDay(a *Advice) []Tip {
	if len(a.incomes) == 0 {
		return nil
	}
	payDay := a.firstPayDay()
	var after []models.Bill
	for _, b := range a.pending {
		if b.DueDate.Day() >= payDay {
			after = append(after, b)
		}
	}
	if len(after) == 0 {
		return nil
	}
	return []Tip{{
		Icon:  "check",
		Title: "Pay these bills right after payday",
		Body: fmt.Sprintf("On day %d you receive %s. Pay first: %s.", payDay, a.f.Money(a.salary),
			billList(after, 3, func(b models.Bill) string { return fmt.Sprintf("%s (%s)", b.Title, a.f.Money(Remaining(b))) })),
		Priority: PriorityMedium,
	}}
}

func ruleBudgetPace(a *Advice) []Tip {
	budget := a.State.MonthlyBudget
	if !budget.IsPositive() {
		return nil
	}
	used := a.Snapshot.BudgetUsagePercent
	ideal := float64(ElapsedDays(a.Month, a.Today)) / float64(a.Month.Days()) * 100
	switch {
	case used > ideal+15:
		over := budget.Mul(decimal.NewFromFloat((used - ideal) / 100))
		return []Tip{{
			Icon:  "alert",
			Title: "You are spending too fast",
			Body: fmt.Sprintf("%s of the budget is gone but only %s of the month has passed. Cut %s to get back on pace.",
				a.f.Percent(used), a.f.Percent(ideal), a.f.Money(over)),
			Priority: PriorityHigh,
		}}
	case used < ideal-10:
		left := budget.Mul(decimal.NewFromFloat(1 - used/100))
		return []Tip{{
			Icon:  "check",
			Title: "Great spending control",
			Body: fmt.Sprintf("You used %s of the budget with %s of the month gone. %s is still available.",
				a.f.Percent(used), a.f.Percent(ideal), a.f.Money(left)),
			Priority: PriorityLow,
		}}
	}
	return nil
}

func ruleSavingsPotential(a *Advice) []Tip {
	if !a.salary.IsPositive() {
		return nil
	}
	spending := a.Snapshot.ExpensesTotal.Add(a.totalPending)
	leftover := a.salary.Sub(spending)
	if !leftover.IsPositive() {
		return []Tip{{
			Icon:  "alert",
			Title: "Spending exceeds income",
			Body: fmt.Sprintf("Your spending (%s) exceeds your income (%s) by %s. Review the most expensive categories.",
				a.f.Money(spending), a.f.Money(a.salary), a.f.Money(leftover.Abs())),
			Priority: PriorityHigh,
		}}
	}
	pct := a.share(leftover)
	priority := PriorityMedium
	if pct >= 20 {
		priority = PriorityLow
	}
	return []Tip{{
		Icon:  "piggy-bank",
		Title: fmt.Sprintf("Savings potential: %s", a.f.Money(leftover)),
		Body: fmt.Sprintf("With income of %s and spending of %s you can keep %s of your income. The 50/30/20 rule suggests saving at least 20%%.",
			a.f.Money(a.salary), a.f.Money(spending), a.f.Percent(pct)),
		Priority: priority,
	}}
}

func ruleTopCategory(a *Advice) []Tip {
	if len(a.Snapshot.CategoryBreakdown) == 0 || !a.salary.IsPositive() {
		return nil
	}
	top := a.Snapshot.CategoryBreakdown[0]
	pct := a.share(top.Total)
	label := top.Category.Label()
	if pct > 30 {
		return []Tip{{
			Icon:     "list",
			Title:    fmt.Sprintf("Largest spending: %s (%s of income)", label, a.f.Percent(pct)),
			Body:     fmt.Sprintf("%s takes %s of your income. Try to bring it under 30%% by shopping around or renegotiating.", label, a.f.Percent(pct)),
			Priority: PriorityMedium,
		}}
	}
	return []Tip{{
		Icon:     "list",
		Title:    fmt.Sprintf("Largest spending: %s (%s of income)", label, a.f.Percent(pct)),
		Body:     fmt.Sprintf("%s is at a healthy level. Keep monitoring it.", label),
		Priority: PriorityLow,
	}}
}

func ruleCategoryCuts(a *Advice) []Tip {
	if !a.salary.IsPositive() {
		return nil
	}
	var tips []Tip
	for i, c := range a.Snapshot.CategoryBreakdown {
		if i == 3 {
			break
		}
		pct := a.share(c.Total)
		if pct <= 15 {
			continue
		}
		cut := c.Total.Div(decimal.NewFromInt(10)).Round(2)
		tips = append(tips, Tip{
			Icon:  "scissors",
			Title: fmt.Sprintf("Trim %s by 10%%", c.Category.Label()),
			Body: fmt.Sprintf("%s costs %s this month (%s of income). A 10%% cut saves %s a month, %s a year.",
				c.Category.Label(), a.f.Money(c.Total), a.f.Percent(pct), a.f.Money(cut), a.f.Money(cut.Mul(decimal.NewFromInt(12)))),
			Priority: PriorityMedium,
		})
	}
	return tips
}

func ruleOverdue(a *Advice) []Tip {
	overdue := a.Snapshot.OverdueBills
	if len(overdue) == 0 {
		return nil
	}
	return []Tip{{
		Icon:     "alert",
		Title:    fmt.Sprintf("Urgent: %s overdue", a.f.Money(sumRemaining(overdue))),
		Body:     fmt.Sprintf("Pay %s as soon as possible to avoid interest and fines.", billList(overdue, 0, func(b models.Bill) string { return b.Title })),
		Priority: PriorityHigh,
	}}
}

func ruleEmergencyFund(a *Advice) []Tip {
	if !a.salary.IsPositive() || len(a.State.SavingsGoals) > 0 {
		return nil
	}
	return []Tip{{
		Icon:     "shield",
		Title:    "Create an emergency fund goal",
		Body:     fmt.Sprintf("Experts recommend keeping %s (6 months of income). Start by creating a savings goal.", a.f.Money(a.salary.Mul(decimal.NewFromInt(6)))),
		Priority: PriorityLow,
	}}
}

func ruleDueThisWeek(a *Advice) []Tip {
	var soon []models.Bill
	for _, b := range a.pending {
		if d := a.Today.DaysUntil(b.DueDate); d > 0 && d <= 7 {
			soon = append(soon, b)
		}
	}
	if len(soon) == 0 {
		return nil
	}
	sort.SliceStable(soon, func(i, j int) bool { return soon[i].DueDate.Before(soon[j].DueDate) })
	parts := make([]string, 0, len(soon))
	for _, b := range soon {
		parts = append(parts, fmt.Sprintf("%s: %s in %dd", b.Title, a.f.Money(Remaining(b)), a.Today.DaysUntil(b.DueDate)))
	}
	return []Tip{{
		Icon:     "calendar",
		Title:    fmt.Sprintf("%d bill(s) in the next 7 days", len(soon)),
		Body:     strings.Join(parts, " | "),
		Priority: PriorityMedium,
	}}
}

func ruleGoalDeadline(a *Advice) []Tip {
	if !a.salary.IsPositive() {
		return nil
	}
	var tips []Tip
	for _, g := range a.State.SavingsGoals {
		if g.Deadline == nil || !g.Deadline.After(a.Today) {
			continue
		}
		missing := g.TargetAmount.Sub(g.CurrentAmount)
		if !missing.IsPositive() {
			continue
		}
		months := max(int(math.Ceil(float64(a.Today.DaysUntil(*g.Deadline))/30)), 1)
		perMonth := missing.Div(decimal.NewFromInt(int64(months))).Round(2)
		if a.share(perMonth) <= 20 {
			continue
		}
		tips = append(tips, Tip{
			Icon:  "target",
			Title: fmt.Sprintf("Goal %q needs %s a month", g.Title, a.f.Money(perMonth)),
			Body: fmt.Sprintf("To reach %s by %s you need %s of your income every month. Consider extending the deadline.",
				a.f.Money(g.TargetAmount), a.f.Date(*g.Deadline), a.f.Percent(a.share(perMonth))),
			Priority: PriorityMedium,
		})
	}
	return tips
}

func ruleGoalAlmostReached(a *Advice) []Tip {
	var tips []Tip
	for _, g := range a.State.SavingsGoals {
		if !g.TargetAmount.IsPositive() || g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount) {
			continue
		}
		progress := ratio(g.CurrentAmount, g.TargetAmount) * 100
		if progress < 80 {
			continue
		}
		tips = append(tips, Tip{
			Icon:     "target",
			Title:    fmt.Sprintf("%q is almost there", g.Title),
			Body:     fmt.Sprintf("You are at %s. Only %s left to finish it.", a.f.Percent(progress), a.f.Money(g.TargetAmount.Sub(g.CurrentAmount))),
			Priority: PriorityLow,
		})
	}
	return tips
}

func ruleImpulsive(a *Advice) []Tip {
	var expenses []models.Transaction
	sum := decimal.Zero
	for _, t := range a.Snapshot.MonthTransactions {
		if t.Type == models.TransactionExpense {
			expenses = append(expenses, t)
			sum = sum.Add(t.Amount)
		}
	}
	large := ImpulsiveExpenses(expenses, sum)
	if len(large) == 0 {
		return nil
	}
	total := decimal.Zero
	names := make([]string, 0, 3)
	for i, t := range large {
		total = total.Add(t.Amount)
		if i < 3 {
			names = append(names, t.Title)
		}
	}
	return []Tip{{
		Icon:  "zap",
		Title: fmt.Sprintf("%d purchase(s) far above your average", len(large)),
		Body: fmt.Sprintf("%s add up to %s, more than twice your average expense each. Wait a few days before the next big purchase.",
			strings.Join(names, ", "), a.f.Money(total)),
		Priority: PriorityMedium,
	}}
}

func ruleSingleIncome(a *Advice) []Tip {
	if len(a.incomes) != 1 {
		return nil
	}
	return []Tip{{
		Icon:     "layers",
		Title:    "Single income source",
		Body:     fmt.Sprintf("All of your %s comes from %q. A second source, even a small one, lowers your risk.", a.f.Money(a.salary), a.incomes[0].Title),
		Priority: PriorityLow,
	}}
}

func ruleNoBudget(a *Advice) []Tip {
	if a.State.MonthlyBudget.IsPositive() || !a.salary.IsPositive() {
		return nil
	}
	suggested := a.salary.Mul(decimal.RequireFromString("0.8")).Round(2)
	return []Tip{{
		Icon:     "sliders",
		Title:    "Set a monthly budget",
		Body:     fmt.Sprintf("Without a budget there is no pace to follow. Start with %s, 80%% of your income.", a.f.Money(suggested)),
		Priority: PriorityMedium,
	}}
}

func ruleNegativeProjection(a *Advice) []Tip {
	if !a.Snapshot.ProjectedBalance.IsNegative() {
		return nil
	}
	return []Tip{{
		Icon:     "trending-down",
		Title:    "The month closes in the red",
		Body:     fmt.Sprintf("With what is recorded so far the month ends at %s. Postpone expenses or bring forward receivables.", a.f.Money(a.Snapshot.ProjectedBalance)),
		Priority: PriorityHigh,
	}}
}

func rulePartialBills(a *Advice) []Tip {
	var partial []models.Bill
	for _, b := range a.pending {
		if b.Type == models.BillPay && b.Status == models.BillPartial {
			partial = append(partial, b)
		}
	}
	if len(partial) == 0 {
		return nil
	}
	return []Tip{{
		Icon:  "pie-chart",
		Title: fmt.Sprintf("%d bill(s) partially paid", len(partial)),
		Body: fmt.Sprintf("Still %s to go: %s.", a.f.Money(sumRemaining(partial)),
			billList(partial, 3, func(b models.Bill) string { return fmt.Sprintf("%s (%s)", b.Title, a.f.Money(Remaining(b))) })),
		Priority: PriorityMedium,
	}}
}

func ruleOpenReceivables(a *Advice) []Tip {
	if !a.Snapshot.BillsToReceive.IsPositive() {
		return nil
	}
	return []Tip{{
		Icon:     "inbox",
		Title:    fmt.Sprintf("%s still to receive", a.f.Money(a.Snapshot.BillsToReceive)),
		Body:     "Follow up on open receivables so they arrive before your bills fall due.",
		Priority: PriorityLow,
	}}
}

func ruleWeekendSpending(a *Advice) []Tip {
	total, weekend := decimal.Zero, decimal.Zero
	count := 0
	for _, t := range a.Snapshot.MonthTransactions {
		if t.Type != models.TransactionExpense {
			continue
		}
		count++
		total = total.Add(t.Amount)
		if wd := t.Date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			weekend = weekend.Add(t.Amount)
		}
	}
	if count < 3 {
		return nil
	}
	pct := ratio(weekend, total) * 100
	if pct <= 40 {
		return nil
	}
	return []Tip{{
		Icon:     "sun",
		Title:    "Weekends weigh on your spending",
		Body:     fmt.Sprintf("%s of this month's expenses (%s) happened on weekends. Plan weekend outings ahead.", a.f.Percent(pct), a.f.Money(weekend)),
		Priority: PriorityMedium,
	}}
}

func ruleIdleSurplus(a *Advice) []Tip {
	if a.KeyRate <= 0 || !a.salary.IsPositive() {
		return nil
	}
	surplus := a.salary.Sub(a.Snapshot.ExpensesTotal).Sub(a.totalPending)
	if !surplus.IsPositive() {
		return nil
	}
	yearly := surplus.Mul(decimal.NewFromFloat(a.KeyRate / 100)).Round(2)
	return []Tip{{
		Icon:  "percent",
		Title: "Put the surplus to work",
		Body: fmt.Sprintf("Invested at the reference rate of %.2f%%, this month's surplus of %s would earn about %s in a year.",
			a.KeyRate, a.f.Money(surplus), a.f.Money(yearly)),
		Priority: PriorityLow,
	}}
}
