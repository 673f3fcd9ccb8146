package store

import (
	"context"
	"fmt"

	"projecttracker/internal/database"
	"projecttracker/internal/model"
)

// Entry reads join the logger and the project so views can resolve names and
// rates at read time.
const entryColumns = `e.id, e.project_id, e.user_id, e.description, e.hours, e.date, e.created_at,
	 u.full_name, u.hourly_rate, p.name, p.client, p.hourly_rate`

func scanEntry(row interface{ Scan(dest ...any) error }) (*model.TimeEntry, error) {
	e := &model.TimeEntry{}
	err := row.Scan(
		&e.ID,
		&e.ProjectID,
		&e.UserID,
		&e.Description,
		&e.Hours,
		&e.Date,
		&e.CreatedAt,
		&e.UserName,
		&e.UserHourlyRate,
		&e.ProjectName,
		&e.ProjectClient,
		&e.ProjectHourlyRate,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func GetTimeEntryByID(ctx context.Context, db database.DB, entryID int) (*model.TimeEntry, error) {
	row := db.QueryRow(ctx,
		`SELECT `+entryColumns+`
		 FROM time_entries e
		 JOIN users u ON u.id = e.user_id
		 JOIN projects p ON p.id = e.project_id
		 WHERE e.id = $1`,
		entryID,
	)
	e, err := scanEntry(row)
	if err != nil {
		return nil, fmt.Errorf("GetTimeEntryByID: %w", err)
	}
	return e, nil
}

func CreateTimeEntry(ctx context.Context, db database.DB, e *model.TimeEntry) (*model.TimeEntry, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO time_entries (project_id, user_id, description, hours, date)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		e.ProjectID,
		e.UserID,
		e.Description,
		e.Hours,
		e.Date,
	)
	if err := row.Scan(&e.ID, &e.CreatedAt); err != nil {
		return nil, fmt.Errorf("CreateTimeEntry: %w", err)
	}
	return e, nil
}

func listEntries(ctx context.Context, db database.DB, name, where string, args ...any) ([]model.TimeEntry, error) {
	query := `SELECT ` + entryColumns + `
		 FROM time_entries e
		 JOIN users u ON u.id = e.user_id
		 JOIN projects p ON p.id = e.project_id ` + where + ` ORDER BY e.date DESC, e.id DESC`
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	defer rows.Close()

	var entries []model.TimeEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return entries, nil
}

// ListTimeEntries returns all entries, newest first (admin time-tracking).
func ListTimeEntries(ctx context.Context, db database.DB) ([]model.TimeEntry, error) {
	return listEntries(ctx, db, "ListTimeEntries", "")
}

// ListTimeEntriesByUser scopes the time-tracking view for employees.
func ListTimeEntriesByUser(ctx context.Context, db database.DB, userID int) ([]model.TimeEntry, error) {
	return listEntries(ctx, db, "ListTimeEntriesByUser", "WHERE e.user_id = $1", userID)
}

// ListTimeEntriesByProject collects a project's entries for billing.
func ListTimeEntriesByProject(ctx context.Context, db database.DB, projectID int) ([]model.TimeEntry, error) {
	return listEntries(ctx, db, "ListTimeEntriesByProject", "WHERE e.project_id = $1", projectID)
}

func DeleteTimeEntry(ctx context.Context, db database.DB, entryID int) error {
	_, err := db.Exec(ctx,
		`DELETE FROM time_entries WHERE id = $1`,
		entryID,
	)
	if err != nil {
		return fmt.Errorf("DeleteTimeEntry: %w", err)
	}
	return nil
}
