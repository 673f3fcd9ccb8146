package store

import (
	"context"
	"errors"
	"fmt"

	"projecttracker/internal/database"
	"projecttracker/internal/model"

	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned by lookups that matched no row.
var ErrNotFound = errors.New("not found")

func CreateInvoice(ctx context.Context, db database.DB, inv *model.Invoice) (*model.Invoice, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO invoices (project_id, provider, reference, total_amount)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, sent_at`,
		inv.ProjectID,
		inv.Provider,
		inv.Reference,
		inv.TotalAmount,
	)
	if err := row.Scan(&inv.ID, &inv.SentAt); err != nil {
		return nil, fmt.Errorf("CreateInvoice: %w", err)
	}
	return inv, nil
}

// GetInvoice looks up the sent-invoice record for a project and provider;
// ErrNotFound means the project has not been invoiced there yet.
func GetInvoice(ctx context.Context, db database.DB, projectID int, provider string) (*model.Invoice, error) {
	row := db.QueryRow(ctx,
		`SELECT id, project_id, provider, reference, total_amount, sent_at
		 FROM invoices WHERE project_id = $1 AND provider = $2`,
		projectID,
		provider,
	)
	inv := &model.Invoice{}
	err := row.Scan(&inv.ID, &inv.ProjectID, &inv.Provider, &inv.Reference, &inv.TotalAmount, &inv.SentAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetInvoice: %w", err)
	}
	return inv, nil
}

// ListInvoices returns all sent invoices, newest first.
func ListInvoices(ctx context.Context, db database.DB) ([]model.Invoice, error) {
	rows, err := db.Query(ctx,
		`SELECT id, project_id, provider, reference, total_amount, sent_at
		 FROM invoices ORDER BY sent_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("ListInvoices: %w", err)
	}
	defer rows.Close()

	var invoices []model.Invoice
	for rows.Next() {
		inv := model.Invoice{}
		if err := rows.Scan(&inv.ID, &inv.ProjectID, &inv.Provider, &inv.Reference, &inv.TotalAmount, &inv.SentAt); err != nil {
			return nil, fmt.Errorf("ListInvoices: %w", err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListInvoices: %w", err)
	}
	return invoices, nil
}
