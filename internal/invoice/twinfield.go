package invoice

import (
	"strings"
	"time"

	"projecttracker/internal/service"
)

// Twinfield payload shapes; like the Moneybird ones these are the public
// contract of the formatter.

type TwinfieldLine struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Amount      float64 `json:"amount"`
	Employee    string  `json:"employee"`
	Date        string  `json:"date"`
}

type TwinfieldInvoice struct {
	Customer     string          `json:"customer"`
	InvoiceLines []TwinfieldLine `json:"invoiceLines"`
	TotalAmount  float64         `json:"totalAmount"`
	Reference    string          `json:"reference"`
}

// TwinfieldReference derives the uppercased, hyphenated reference code from
// a project name, e.g. "Website redesign" → "PRJ-WEBSITE-REDESIGN".
func TwinfieldReference(projectName string) string {
	return "PRJ-" + strings.ToUpper(strings.Join(strings.Fields(projectName), "-"))
}

// BuildTwinfieldInvoice maps a billing bundle onto Twinfield's flat invoice
// lines: quantity is the hours, unit price the project rate.
func BuildTwinfieldInvoice(b service.BillingBundle, _ time.Time) TwinfieldInvoice {
	lines := make([]TwinfieldLine, 0, len(b.TimeEntries))
	for _, e := range b.TimeEntries {
		lines = append(lines, TwinfieldLine{
			Description: b.Project.Name + " - " + e.Description,
			Quantity:    e.Hours,
			UnitPrice:   b.Project.HourlyRate,
			Amount:      e.Hours * b.Project.HourlyRate,
			Employee:    e.UserName,
			Date:        e.Date.Format("2006-01-02"),
		})
	}
	return TwinfieldInvoice{
		Customer:     b.Project.Client,
		InvoiceLines: lines,
		TotalAmount:  b.TotalAmount,
		Reference:    TwinfieldReference(b.Project.Name),
	}
}
