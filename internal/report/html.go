package report

import (
	"fmt"
	"io"

	"github.com/Dan9191/neuroledger/internal/finance"
	"github.com/Dan9191/neuroledger/internal/models"
	"github.com/beevik/etree"
)

// MonthReport is the data rendered by WriteHTML.
type MonthReport struct {
	Month    models.MonthKey
	Snapshot models.MonthlySnapshot
	Indices  models.FinancialIndices
	Health   models.HealthScore
}

// WriteHTML renders a month report as an XHTML document
func WriteHTML(w io.Writer, r MonthReport, f *finance.Formatter) error {
	doc := etree.NewDocument()
	doc.CreateDirective("DOCTYPE html")
	html := doc.CreateElement("html")
	html.CreateAttr("xmlns", "http://www.w3.org/1999/xhtml")
	html.CreateAttr("lang", "en")

	head := html.CreateElement("head")
	head.CreateElement("meta").CreateAttr("charset", "utf-8")
	head.CreateElement("title").SetText("NeuroLedger " + r.Month.String())

	body := html.CreateElement("body")
	body.CreateElement("h1").SetText("Monthly report " + r.Month.String())

	s := r.Snapshot
	summary := table(body, "summary", "Item", "Value")
	row(summary, "Income", f.Money(s.IncomesTotal))
	row(summary, "Expenses", f.Money(s.ExpensesTotal))
	row(summary, "Bills to receive", f.Money(s.BillsToReceive))
	row(summary, "Bills to pay", f.Money(s.BillsToPay))
	row(summary, "Paid so far", f.Money(s.BillsPaidSoFar))
	row(summary, "Projected balance", f.Money(s.ProjectedBalance))
	row(summary, "Budget used", f.Percent(s.BudgetUsagePercent))

	body.CreateElement("h2").SetText("Categories")
	cats := table(body, "categories", "Category", "Total")
	for _, c := range s.CategoryBreakdown {
		row(cats, c.Category.Label(), f.Money(c.Total))
	}

	billList(body, "Overdue bills", "overdue", s.OverdueBills, f)
	billList(body, "Upcoming bills", "upcoming", s.UpcomingBills, f)

	body.CreateElement("h2").SetText("Indices")
	idx := table(body, "indices", "Index", "Value")
	row(idx, "Discipline", fmt.Sprintf("%d/1000 %s", r.Indices.DisciplineScore, r.Indices.DisciplineLevel))
	row(idx, "Health", fmt.Sprintf("%d/1000 %s", r.Health.Score, r.Health.Label))
	row(idx, "Impulsivity", fmt.Sprintf("%d/100", r.Indices.ImpulsivityIndex))
	row(idx, "Risk", fmt.Sprintf("%d/100", r.Indices.RiskIndex))
	row(idx, "Month projection", string(r.Indices.MonthProjection))
	row(idx, "Estimated end balance", f.Money(r.Indices.ProjectedEndBalance))
	row(idx, "Savings rate", f.Percent(r.Indices.SavingsRate))

	doc.Indent(2)
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func table(parent *etree.Element, id string, headers ...string) *etree.Element {
	t := parent.CreateElement("table")
	t.CreateAttr("id", id)
	tr := t.CreateElement("tr")
	for _, h := range headers {
		tr.CreateElement("th").SetText(h)
	}
	return t
}

func row(t *etree.Element, cells ...string) {
	tr := t.CreateElement("tr")
	for _, c := range cells {
		tr.CreateElement("td").SetText(c)
	}
}

func billList(body *etree.Element, title, id string, bills []models.Bill, f *finance.Formatter) {
	body.CreateElement("h2").SetText(title)
	if len(bills) == 0 {
		body.CreateElement("p").SetText("None.")
		return
	}
	ul := body.CreateElement("ul")
	ul.CreateAttr("id", id)
	for _, b := range bills {
		ul.CreateElement("li").SetText(fmt.Sprintf("%s: %s, due %s", b.Title, f.Money(finance.Remaining(b)), f.Date(b.DueDate)))
	}
}
