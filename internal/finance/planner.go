package finance

import (
	"fmt"
	"sort"

	"github.com/Dan9191/neuroledger/internal/models"
	"github.com/shopspring/decimal"
)

// FreeTarget is the allocation target used for money left after every obligation.
const FreeTarget = "Free for you"

// IncomeEvent is money arriving on a date.
type IncomeEvent struct {
	Date   models.Date     `json:"date"`
	Title  string          `json:"title"`
	Amount decimal.Decimal `json:"amount"`
}

// Obligation is money owed by a due date.
type Obligation struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	DueDate   models.Date     `json:"dueDate"`
	Remaining decimal.Decimal `json:"remaining"`
}

// Allocation is part of one income event assigned to an obligation or left free.
type Allocation struct {
	Target       string          `json:"target"`
	ObligationID string          `json:"obligationId,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Reason       string          `json:"reason"`
	Free         bool            `json:"free"`
}

// PlanStep is the distribution of one income event.
type PlanStep struct {
	Date           models.Date     `json:"date"`
	Source         string          `json:"source"`
	Received       decimal.Decimal `json:"received"`
	Allocations    []Allocation    `json:"allocations"`
	RemainingFree  decimal.Decimal `json:"remainingFree"`
	CumulativeFree decimal.Decimal `json:"cumulativeFree"`
}

// Plan is the result of Allocate.
type Plan struct {
	Steps            []PlanStep      `json:"steps"`
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalObligations decimal.Decimal `json:"totalObligations"`
	FinalFree        decimal.Decimal `json:"finalFree"`
	Uncovered        decimal.Decimal `json:"uncovered"`
	Warnings         []string        `json:"warnings"`
	Advice           []string        `json:"advice"`
}

// Allocate distributes every income event, in date order, over the
// obligations. Each event first covers obligations due on or before its date,
// then reserves for later ones, nearest due date first; whatever is left is
// free. Every unit of income ends up in exactly one allocation.
func Allocate(incomes []IncomeEvent, obligations []Obligation, today models.Date, f *Formatter) Plan {
	incomes = append([]IncomeEvent(nil), incomes...)
	sort.SliceStable(incomes, func(i, j int) bool { return incomes[i].Date.Before(incomes[j].Date) })

	var obls []Obligation
	for _, o := range obligations {
		if o.Remaining.IsPositive() {
			obls = append(obls, o)
		}
	}
	sort.SliceStable(obls, func(i, j int) bool { return obls[i].DueDate.Before(obls[j].DueDate) })

	plan := Plan{
		Steps:            []PlanStep{},
		TotalIncome:      decimal.Zero,
		TotalObligations: decimal.Zero,
		Uncovered:        decimal.Zero,
		Warnings:         []string{},
		Advice:           []string{},
	}
	for _, inc := range incomes {
		plan.TotalIncome = plan.TotalIncome.Add(inc.Amount)
	}
	owed := make([]decimal.Decimal, len(obls))
	for i, o := range obls {
		owed[i] = o.Remaining
		plan.TotalObligations = plan.TotalObligations.Add(o.Remaining)
	}

	if !plan.TotalIncome.IsPositive() {
		plan.Warnings = append(plan.Warnings, "Add at least one income entry.")
	}
	if plan.TotalObligations.GreaterThan(plan.TotalIncome) {
		plan.Warnings = append(plan.Warnings, fmt.Sprintf(
			"Your obligations (%s) exceed your income (%s) by %s. You will need to cut spending or find extra income.",
			f.Money(plan.TotalObligations), f.Money(plan.TotalIncome), f.Money(plan.TotalObligations.Sub(plan.TotalIncome))))
	}

	cumulative := decimal.Zero
	for _, inc := range incomes {
		budget := inc.Amount
		allocs := []Allocation{}

		pay := func(i int, reason string) {
			amount := decimal.Min(owed[i], budget)
			allocs = append(allocs, Allocation{
				Target:       obls[i].Title,
				ObligationID: obls[i].ID,
				Amount:       amount,
				Reason:       reason,
			})
			owed[i] = owed[i].Sub(amount)
			budget = budget.Sub(amount)
		}

		for i, o := range obls {
			if !budget.IsPositive() {
				break
			}
			if o.DueDate.After(inc.Date) || !owed[i].IsPositive() {
				continue
			}
			state := "due now"
			if !o.DueDate.After(today) {
				state = "already overdue"
			}
			pay(i, fmt.Sprintf("Due %s, %s", f.Date(o.DueDate), state))
		}
		for i, o := range obls {
			if !budget.IsPositive() {
				break
			}
			if !o.DueDate.After(inc.Date) || !owed[i].IsPositive() {
				continue
			}
			pay(i, fmt.Sprintf("Due %s, reserve now", f.Date(o.DueDate)))
		}

		cumulative = cumulative.Add(budget)
		if budget.IsPositive() {
			allocs = append(allocs, Allocation{
				Target: FreeTarget,
				Amount: budget,
				Reason: "Left after covering every bill",
				Free:   true,
			})
		}
		plan.Steps = append(plan.Steps, PlanStep{
			Date:           inc.Date,
			Source:         inc.Title,
			Received:       inc.Amount,
			Allocations:    allocs,
			RemainingFree:  budget,
			CumulativeFree: cumulative,
		})
	}

	for i, o := range obls {
		if owed[i].IsPositive() {
			plan.Uncovered = plan.Uncovered.Add(owed[i])
			plan.Warnings = append(plan.Warnings, fmt.Sprintf(
				"%q will be left with %s uncovered. Renegotiate the due date or find extra income.",
				o.Title, f.Money(owed[i])))
		}
	}

	finalFree := plan.TotalIncome.Sub(plan.TotalObligations)
	plan.FinalFree = decimal.Max(finalFree, decimal.Zero)
	if finalFree.IsPositive() {
		pct := ratio(finalFree, plan.TotalIncome) * 100
		plan.Advice = append(plan.Advice, fmt.Sprintf("After paying everything, %s is left (%s of income).", f.Money(finalFree), f.Percent(pct)))
		switch {
		case pct >= 20:
			plan.Advice = append(plan.Advice, "Excellent! You can save more than 20%. Consider investing part of it.")
		case pct >= 10:
			plan.Advice = append(plan.Advice, fmt.Sprintf("Good! You keep about %s. Try to reach 20%% by cutting non-essential spending.", f.Percent(pct)))
		default:
			plan.Advice = append(plan.Advice, fmt.Sprintf("Tight margin of %s. Any surprise can break the month. Watch extra spending.", f.Percent(pct)))
		}
	}

	if len(plan.Steps) > 1 && len(obls) > 0 {
		largest := obls[0]
		for _, o := range obls[1:] {
			if o.Remaining.GreaterThan(largest.Remaining) {
				largest = o
			}
		}
		before := 0
		for _, inc := range incomes {
			if !inc.Date.After(largest.DueDate) {
				before++
			}
		}
		if before > 1 {
			plan.Advice = append(plan.Advice, fmt.Sprintf(
				"For %q (%s): build the reserve from the earlier incomes and do not spend it.",
				largest.Title, f.Money(largest.Remaining)))
		}
	}

	if len(incomes) > 0 && len(obls) > 0 && obls[0].DueDate.Before(incomes[0].Date) {
		plan.Warnings = append(plan.Warnings, fmt.Sprintf(
			"Heads up: %q is due on %s, before the first income on %s. Set this amount aside in advance.",
			obls[0].Title, f.Date(obls[0].DueDate), f.Date(incomes[0].Date)))
	}

	return plan
}
