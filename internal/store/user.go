package store

import (
	"context"
	"fmt"

	"projecttracker/internal/database"
	"projecttracker/internal/model"
)

func scanUser(row interface{ Scan(dest ...any) error }) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.FullName,
		&u.PasswordHash,
		&u.Role,
		&u.HourlyRate,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func GetUserByID(ctx context.Context, db database.DB, userID int) (*model.User, error) {
	row := db.QueryRow(ctx,
		`SELECT id, email, full_name, password_hash, role, hourly_rate, created_at
		 FROM users WHERE id = $1`,
		userID,
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("GetUserByID: %w", err)
	}
	return u, nil
}

func GetUserByEmail(ctx context.Context, db database.DB, email string) (*model.User, error) {
	row := db.QueryRow(ctx,
		`SELECT id, email, full_name, password_hash, role, hourly_rate, created_at
		 FROM users WHERE email = $1`,
		email,
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("GetUserByEmail: %w", err)
	}
	return u, nil
}

func CreateUser(ctx context.Context, db database.DB, u *model.User) (*model.User, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO users (email, full_name, password_hash, role, hourly_rate)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		u.Email,
		u.FullName,
		u.PasswordHash,
		u.Role,
		u.HourlyRate,
	)
	if err := row.Scan(&u.ID, &u.CreatedAt); err != nil {
		return nil, fmt.Errorf("CreateUser: %w", err)
	}
	return u, nil
}

// ListUsers returns the full user directory ordered by name (admin view).
func ListUsers(ctx context.Context, db database.DB) ([]model.User, error) {
	rows, err := db.Query(ctx,
		`SELECT id, email, full_name, password_hash, role, hourly_rate, created_at
		 FROM users ORDER BY full_name`,
	)
	if err != nil {
		return nil, fmt.Errorf("ListUsers: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("ListUsers: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListUsers: %w", err)
	}
	return users, nil
}

// UpdateUserName updates the caller's display name (profile page).
func UpdateUserName(ctx context.Context, db database.DB, userID int, fullName string) error {
	_, err := db.Exec(ctx,
		`UPDATE users SET full_name = $1 WHERE id = $2`,
		fullName,
		userID,
	)
	if err != nil {
		return fmt.Errorf("UpdateUserName: %w", err)
	}
	return nil
}

// UpdateUserHourlyRate updates the caller's personal rate. Retroactive by
// design: entries do not freeze the rate at logging time.
func UpdateUserHourlyRate(ctx context.Context, db database.DB, userID int, rate float64) error {
	_, err := db.Exec(ctx,
		`UPDATE users SET hourly_rate = $1 WHERE id = $2`,
		rate,
		userID,
	)
	if err != nil {
		return fmt.Errorf("UpdateUserHourlyRate: %w", err)
	}
	return nil
}

func UpdateUserPassword(ctx context.Context, db database.DB, userID int, passwordHash string) error {
	_, err := db.Exec(ctx,
		`UPDATE users SET password_hash = $1 WHERE id = $2`,
		passwordHash,
		userID,
	)
	if err != nil {
		return fmt.Errorf("UpdateUserPassword: %w", err)
	}
	return nil
}
