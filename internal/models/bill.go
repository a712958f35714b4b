package models

import "github.com/shopspring/decimal"

// BillType tells whether a bill is owed by the user or owed to the user.
type BillType string

const (
	BillPay     BillType = "pay"
	BillReceive BillType = "receive"
)

// Valid reports whether t is a known bill type.
func (t BillType) Valid() bool {
	return t == BillPay || t == BillReceive
}

// BillStatus is derived from the payments of a bill; it is stored only for querying.
type BillStatus string

const (
	BillPending BillStatus = "pending"
	BillPartial BillStatus = "partial"
	BillPaid    BillStatus = "paid"
)

// Payment represents a partial payment recorded against exactly one bill
type Payment struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Date   Date            `json:"date"`
	Notes  string          `json:"notes,omitempty"`
}

// Bill represents a scheduled obligation, payable or receivable
type Bill struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Amount   decimal.Decimal `json:"amount"`
	DueDate  Date            `json:"dueDate"`
	Type     BillType        `json:"type"`
	Category Category        `json:"category"`
	Status   BillStatus      `json:"status"`
	Payments []Payment       `json:"payments"`
}
