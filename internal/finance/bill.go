package finance

import (
	"github.com/Dan9191/neuroledger/internal/models"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PaidTotal sums the payments recorded against b.
func PaidTotal(b models.Bill) decimal.Decimal {
	total := decimal.Zero
	for _, p := range b.Payments {
		total = total.Add(p.Amount)
	}
	return total
}

// Remaining is what is still owed on b, never negative.
func Remaining(b models.Bill) decimal.Decimal {
	rem := b.Amount.Sub(PaidTotal(b))
	if rem.IsNegative() {
		return decimal.Zero
	}
	return rem
}

// ProgressPercent is the paid share of b in [0, 100]. A bill with a
// non-positive amount counts as fully satisfied.
func ProgressPercent(b models.Bill) float64 {
	if !b.Amount.IsPositive() {
		return 100
	}
	pct := PaidTotal(b).Div(b.Amount).Mul(hundred)
	if pct.GreaterThan(hundred) {
		return 100
	}
	return pct.InexactFloat64()
}

// DeriveStatus computes the status of b from its amount and payments.
func DeriveStatus(b models.Bill) models.BillStatus {
	paid := PaidTotal(b)
	switch {
	case paid.GreaterThanOrEqual(b.Amount):
		return models.BillPaid
	case paid.IsPositive():
		return models.BillPartial
	default:
		return models.BillPending
	}
}

// IsOverdue reports whether b is unpaid and its due date is before today.
func IsOverdue(b models.Bill, today models.Date) bool {
	return DeriveStatus(b) != models.BillPaid && b.DueDate.Before(today)
}

// RepairBill re-syncs the stored status with the payments and maps unknown
// categories to other. It returns whether anything changed.
func RepairBill(b *models.Bill) bool {
	changed := false
	if status := DeriveStatus(*b); b.Status != status {
		b.Status = status
		changed = true
	}
	if c := b.Category.OrOther(); c != b.Category {
		b.Category = c
		changed = true
	}
	return changed
}

// RepairState applies RepairBill to every bill of s and normalizes transaction
// categories. It returns the number of repaired records.
func RepairState(s *models.AppState) int {
	repaired := 0
	for i := range s.Bills {
		if RepairBill(&s.Bills[i]) {
			repaired++
		}
	}
	for i := range s.Transactions {
		if c := s.Transactions[i].Category.OrOther(); c != s.Transactions[i].Category {
			s.Transactions[i].Category = c
			repaired++
		}
	}
	return repaired
}

// AddPayment appends p to b and re-derives the status.
func AddPayment(b *models.Bill, p models.Payment) {
	b.Payments = append(b.Payments, p)
	b.Status = DeriveStatus(*b)
}
