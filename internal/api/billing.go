package api

import (
	"projecttracker/internal/model"
	"projecttracker/internal/service"
)

// swagger:model api.BillingResponse
type BillingResponse struct {
	Bundles []service.BillingBundle `json:"bundles"`

	// Summary over the (filtered) working set.
	TotalBillableHours  float64 `json:"total_billable_hours"`
	TotalBillableAmount float64 `json:"total_billable_amount"`
}

// swagger:model api.SendInvoiceResponse
type SendInvoiceResponse struct {
	Message string        `json:"message"`
	Invoice model.Invoice `json:"invoice"`
}
