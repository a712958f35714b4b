package finance

import (
	"fmt"
	"strings"

	"github.com/Dan9191/neuroledger/internal/models"
	"github.com/shopspring/decimal"
)

// SystemPrompt instructs the chat model how to use the financial context.
const SystemPrompt = `You are NeuroLedger AI, a personal financial strategist.
You are PERSONAL to each user. Remember the name, age, income, fixed expenses and everything in the USER and AI_MEMORY context.
Think like a professional money manager. Prioritize paying bills on time, building an emergency reserve, and leaving room for leisure without compromising the budget.
Every purchase the user records is in the data; use it for personalized advice and remind the user to record purchases in the app when relevant.

STYLE: direct, confrontational when needed, motivating but realistic. ALWAYS use the user's concrete numbers. Concise: at most 400 words. NEVER use emojis; use only text, **bold** and lists.

CAPABILITIES:
1. FINANCIAL GPS: when asked, produce 4 routes with concrete values:
   [SURVIVAL] pay bills, zero risk, essentials only
   [GROWTH] save 15-25%, progressive goals
   [AGGRESSIVE] maximum investment, big cuts
   [DEBT-FREE] eliminate debt (snowball or avalanche)
2. PATTERNS: detect impulsive purchases, post-payday spending and weekend spending. Confront with empathy.
3. PROJECTIONS: month end, 3/6/12 months, "future you" in 1/3/5 years. Always two scenarios (optimistic and pessimistic) with values.
4. ASSISTED DECISIONS: for a purchase question compute the impact on the month and on goals, a cheaper alternative, and how many days to wait.
5. SMART CUTS: suggest barely noticeable cuts based on the user's real categories.
6. ADAPTIVE GOALS: suggest goals based on real income.
7. SMART PRESSURE: when a pattern is bad, confront it with data.
8. MISTAKE SIMULATOR: "If you keep spending like this for N months you lose X and miss Y of investment."

DISCIPLINE SCORE (already computed by the system):
Level 1 (0-200): Survivor
Level 2 (201-400): Organized
Level 3 (401-600): Investor
Level 4 (601-800): Strategist
Level 5 (801-1000): Elite

RULES:
- NEVER take automatic decisions; you analyze, you do not execute
- Use the real data from the provided context
- Format with **bold** and lists (- item). No # headers. ZERO emojis
- ALWAYS concrete numbers. Practical actions, not theory
- If data is missing, ask the user to record it in the app`

// aiMemoryInContext is how many of the newest memory notes go into the context.
const aiMemoryInContext = 10

var projectionLabels = map[models.MonthProjection]string{
	models.ProjectionSafe:    "SAFE",
	models.ProjectionCaution: "CAUTION",
	models.ProjectionRisk:    "RISK",
}

// BuildFinancialContext renders the plain-text block sent to the chat model
// alongside the conversation. profile may be nil.
func BuildFinancialContext(state models.AppState, snap models.MonthlySnapshot, idx models.FinancialIndices, today models.Date, profile *models.UserProfile, f *Formatter) string {
	month := snap.MonthKey
	var lines []string

	if profile != nil {
		lines = append(lines, fmt.Sprintf("USER: %s %s, %d years old", profile.FirstName, profile.LastName, profile.Age))
		lines = append(lines, fmt.Sprintf("Declared income: %s %s", profile.Income.Type, f.Money(profile.Income.Amount)))
		if len(profile.FixedExpenses) > 0 {
			total := decimal.Zero
			parts := make([]string, 0, len(profile.FixedExpenses))
			for _, e := range profile.FixedExpenses {
				total = total.Add(e.Amount)
				parts = append(parts, fmt.Sprintf("%s %s day %d", e.Title, f.Money(e.Amount), e.DueDay))
			}
			lines = append(lines, fmt.Sprintf("Fixed expenses: %s (total: %s)", strings.Join(parts, ", "), f.Money(total)))
		}
		if n := len(profile.AIMemory); n > 0 {
			notes := profile.AIMemory[max(n-aiMemoryInContext, 0):]
			lines = append(lines, "AI_MEMORY: "+strings.Join(notes, " | "))
		}
	}

	incomes := state.ActiveIncomes()
	incomeDetail := "none"
	if len(incomes) > 0 {
		parts := make([]string, 0, len(incomes))
		for _, inc := range incomes {
			parts = append(parts, fmt.Sprintf("%s %s day %d", inc.Title, f.Money(inc.Amount), inc.PayDay))
		}
		incomeDetail = strings.Join(parts, ", ")
	}

	budgetLine := "Budget: not set"
	if state.MonthlyBudget.IsPositive() {
		budgetLine = fmt.Sprintf("Budget: %s (%s used)", f.Money(state.MonthlyBudget), f.Percent(snap.BudgetUsagePercent))
	}

	var pending []models.Bill
	for _, b := range MonthBills(state.Bills, month) {
		if b.Status != models.BillPaid {
			pending = append(pending, b)
		}
	}

	lines = append(lines,
		"MONTH: "+month.String(),
		fmt.Sprintf("Income: %s (%s)", f.Money(state.TotalActiveIncome()), incomeDetail),
		fmt.Sprintf("In: %s | Out: %s", f.Money(snap.IncomesTotal), f.Money(snap.ExpensesTotal)),
		"Projected balance: "+f.Money(snap.ProjectedBalance),
		budgetLine,
		fmt.Sprintf("Pending: %d bills (%s)", len(pending), f.Money(sumRemaining(pending))),
	)

	if len(snap.OverdueBills) > 0 {
		parts := make([]string, 0, len(snap.OverdueBills))
		for _, b := range snap.OverdueBills {
			parts = append(parts, fmt.Sprintf("%s %s (%dd)", b.Title, f.Money(Remaining(b)), b.DueDate.DaysUntil(today)))
		}
		lines = append(lines, "OVERDUE: "+strings.Join(parts, ", "))
	}

	if len(snap.CategoryBreakdown) > 0 {
		parts := make([]string, 0, len(snap.CategoryBreakdown))
		for _, c := range snap.CategoryBreakdown {
			parts = append(parts, fmt.Sprintf("%s %s", c.Category.Label(), f.Money(c.Total)))
		}
		lines = append(lines, "Categories: "+strings.Join(parts, ", "))
	}

	if len(state.SavingsGoals) > 0 {
		parts := make([]string, 0, len(state.SavingsGoals))
		for _, g := range state.SavingsGoals {
			parts = append(parts, fmt.Sprintf("%s %s/%s (%s)", g.Title, f.Money(g.CurrentAmount), f.Money(g.TargetAmount),
				f.Percent(ratio(g.CurrentAmount, g.TargetAmount)*100)))
		}
		lines = append(lines, "Goals: "+strings.Join(parts, ", "))
	}

	lines = append(lines,
		fmt.Sprintf("Score: %d/1000 %s", idx.DisciplineScore, idx.DisciplineLevel),
		fmt.Sprintf("Impulsivity: %d/100 | Risk: %d/100", idx.ImpulsivityIndex, idx.RiskIndex),
		fmt.Sprintf("Month projection: %s (estimated balance: %s)", projectionLabels[idx.MonthProjection], f.Money(idx.ProjectedEndBalance)),
		"Savings: "+f.Percent(idx.SavingsRate),
		fmt.Sprintf("Transactions: %d total, %d this month", len(state.Transactions), len(MonthTransactions(state.Transactions, month))),
	)

	return strings.Join(lines, "\n")
}
