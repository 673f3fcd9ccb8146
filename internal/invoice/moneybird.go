package invoice

import (
	"strconv"
	"time"

	"projecttracker/internal/service"
)

// Moneybird payload shapes. These field names are the formatter's public
// contract; a real integration must keep them.

type MoneybirdContact struct {
	CompanyName string `json:"company_name"`
}

type MoneybirdDetail struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
	TaxRateID   string `json:"tax_rate_id"`
	Period      string `json:"period"`
}

type MoneybirdInvoice struct {
	Contact           MoneybirdContact  `json:"contact"`
	DetailsAttributes []MoneybirdDetail `json:"details_attributes"`
	Reference         string            `json:"reference"`
	InvoiceDate       string            `json:"invoice_date"`
}

// moneybirdTaxRateID is the fixed 21% BTW identifier.
const moneybirdTaxRateID = "21"

// BuildMoneybirdInvoice maps a billing bundle onto Moneybird's shape: one
// line per entry, the line description combining entry description and
// logger name, amounts billed at the project rate.
func BuildMoneybirdInvoice(b service.BillingBundle, now time.Time) MoneybirdInvoice {
	details := make([]MoneybirdDetail, 0, len(b.TimeEntries))
	for _, e := range b.TimeEntries {
		details = append(details, MoneybirdDetail{
			Description: e.Description + " (" + e.UserName + ")",
			Amount:      strconv.FormatFloat(e.Hours*b.Project.HourlyRate, 'f', 2, 64),
			TaxRateID:   moneybirdTaxRateID,
			Period:      e.Date.Format("2006-01-02"),
		})
	}
	return MoneybirdInvoice{
		Contact:           MoneybirdContact{CompanyName: b.Project.Client},
		DetailsAttributes: details,
		Reference:         "Project: " + b.Project.Name,
		InvoiceDate:       now.Format("2006-01-02"),
	}
}
