package store

import (
	"context"
	"fmt"

	"projecttracker/internal/database"
	"projecttracker/internal/model"
)

const projectColumns = `p.id, p.name, p.client, p.status, p.hourly_rate, p.created_by, p.created_at, u.full_name`

func scanProject(row interface{ Scan(dest ...any) error }) (*model.Project, error) {
	p := &model.Project{}
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Client,
		&p.Status,
		&p.HourlyRate,
		&p.CreatedBy,
		&p.CreatedAt,
		&p.CreatorName,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func GetProjectByID(ctx context.Context, db database.DB, projectID int) (*model.Project, error) {
	row := db.QueryRow(ctx,
		`SELECT `+projectColumns+`
		 FROM projects p JOIN users u ON u.id = p.created_by
		 WHERE p.id = $1`,
		projectID,
	)
	p, err := scanProject(row)
	if err != nil {
		return nil, fmt.Errorf("GetProjectByID: %w", err)
	}
	return p, nil
}

func CreateProject(ctx context.Context, db database.DB, p *model.Project) (*model.Project, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO projects (name, client, status, hourly_rate, created_by)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		p.Name,
		p.Client,
		p.Status,
		p.HourlyRate,
		p.CreatedBy,
	)
	if err := row.Scan(&p.ID, &p.CreatedAt); err != nil {
		return nil, fmt.Errorf("CreateProject: %w", err)
	}
	return p, nil
}

func listProjects(ctx context.Context, db database.DB, name, where string, args ...any) ([]model.Project, error) {
	query := `SELECT ` + projectColumns + `
		 FROM projects p JOIN users u ON u.id = p.created_by ` + where + ` ORDER BY p.name`
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return projects, nil
}

// ListProjects returns every project with its creator's name (the board
// shows all projects to all roles).
func ListProjects(ctx context.Context, db database.DB) ([]model.Project, error) {
	return listProjects(ctx, db, "ListProjects", "")
}

// ListProjectsByCreator scopes the time-tracking project filter for
// employees.
func ListProjectsByCreator(ctx context.Context, db database.DB, userID int) ([]model.Project, error) {
	return listProjects(ctx, db, "ListProjectsByCreator", "WHERE p.created_by = $1", userID)
}

// ListProjectsByStatus selects the billing working set (status to-invoice).
func ListProjectsByStatus(ctx context.Context, db database.DB, status string) ([]model.Project, error) {
	return listProjects(ctx, db, "ListProjectsByStatus", "WHERE p.status = $1", status)
}

// UpdateProject updates name, client and billing rate.
func UpdateProject(ctx context.Context, db database.DB, p *model.Project) error {
	_, err := db.Exec(ctx,
		`UPDATE projects SET name = $1, client = $2, hourly_rate = $3 WHERE id = $4`,
		p.Name,
		p.Client,
		p.HourlyRate,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("UpdateProject: %w", err)
	}
	return nil
}

// UpdateProjectStatus writes the target status directly (board drag-drop and
// the post-invoice completion both land here).
func UpdateProjectStatus(ctx context.Context, db database.DB, projectID int, status string) error {
	_, err := db.Exec(ctx,
		`UPDATE projects SET status = $1 WHERE id = $2`,
		status,
		projectID,
	)
	if err != nil {
		return fmt.Errorf("UpdateProjectStatus: %w", err)
	}
	return nil
}

// DeleteProject removes a project; its time entries and invoices go with it
// via the declared ON DELETE CASCADE.
func DeleteProject(ctx context.Context, db database.DB, projectID int) error {
	_, err := db.Exec(ctx,
		`DELETE FROM projects WHERE id = $1`,
		projectID,
	)
	if err != nil {
		return fmt.Errorf("DeleteProject: %w", err)
	}
	return nil
}
