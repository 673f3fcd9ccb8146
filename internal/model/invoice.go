package model

import "time"

// Invoice providers accepted by the send endpoint.
const (
	ProviderMoneybird = "moneybird"
	ProviderTwinfield = "twinfield"
)

// Invoice is the durable record of a successful provider send. One row per
// project and provider; the unique constraint backs the idempotency check.
type Invoice struct {
	ID          int       `db:"id" json:"id"`
	ProjectID   int       `db:"project_id" json:"project_id"`
	Provider    string    `db:"provider" json:"provider"`
	Reference   string    `db:"reference" json:"reference"`
	TotalAmount float64   `db:"total_amount" json:"total_amount"`
	SentAt      time.Time `db:"sent_at" json:"sent_at"`
}

func ValidProvider(p string) bool {
	return p == ProviderMoneybird || p == ProviderTwinfield
}
