package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"smartleave/internal/auth"
	"smartleave/internal/platform/config"
)

var defaultLeaveTypes = []struct {
	Name string
	Days int
}{
	{Name: "Sick Leave", Days: 10},
	{Name: "Casual Leave", Days: 12},
	{Name: "Earned Leave", Days: 15},
}

// Seed provisions the leave type catalog plus one manager and one
// employee reporting to them, with a full set of balances for the
// employee. Idempotent: existing rows are left alone.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	typeIDs := make([]string, 0, len(defaultLeaveTypes))
	for _, lt := range defaultLeaveTypes {
		id, err := ensureLeaveType(ctx, pool, lt.Name, lt.Days)
		if err != nil {
			return err
		}
		typeIDs = append(typeIDs, id)
	}

	managerID, err := ensureUser(ctx, pool, userSeed{
		FirstName: "Admin",
		LastName:  "Manager",
		Email:     cfg.SeedManagerEmail,
		Password:  cfg.SeedManagerPassword,
		Role:      auth.RoleManager,
	})
	if err != nil {
		return err
	}

	employeeID, err := ensureUser(ctx, pool, userSeed{
		FirstName: "John",
		LastName:  "Doe",
		Email:     cfg.SeedEmployeeEmail,
		Password:  cfg.SeedEmployeePassword,
		Role:      auth.RoleEmployee,
		ManagerID: &managerID,
	})
	if err != nil {
		return err
	}

	for i, lt := range defaultLeaveTypes {
		if err := ensureBalance(ctx, pool, employeeID, typeIDs[i], lt.Days); err != nil {
			return err
		}
	}

	return nil
}

func ensureLeaveType(ctx context.Context, pool *pgxpool.Pool, name string, days int) (string, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM leave_types WHERE name = $1", name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}

	err = pool.QueryRow(ctx, "INSERT INTO leave_types (name, default_days) VALUES ($1, $2) RETURNING id", name, days).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

type userSeed struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      string
	ManagerID *string
}

func ensureUser(ctx context.Context, pool *pgxpool.Pool, seed userSeed) (string, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", seed.Email).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}

	hash, err := auth.HashPassword(seed.Password)
	if err != nil {
		return "", err
	}

	err = pool.QueryRow(ctx, `
    INSERT INTO users (first_name, last_name, email, password_hash, role, manager_id)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id
  `, seed.FirstName, seed.LastName, seed.Email, hash, seed.Role, seed.ManagerID).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func ensureBalance(ctx context.Context, pool *pgxpool.Pool, userID, leaveTypeID string, totalDays int) error {
	_, err := pool.Exec(ctx, `
    INSERT INTO leave_balances (user_id, leave_type_id, total_days, used_days)
    VALUES ($1,$2,$3,0)
    ON CONFLICT (user_id, leave_type_id) DO NOTHING
  `, userID, leaveTypeID, totalDays)
	return err
}
