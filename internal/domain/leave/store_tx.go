package leave

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"smartleave/internal/domain/core"
)

type txStore struct {
	tx pgx.Tx
}

func (t *txStore) RequestForUpdate(ctx context.Context, id string) (LeaveRequest, error) {
	var req LeaveRequest
	err := t.tx.QueryRow(ctx, `
    SELECT id, user_id, leave_type_id, start_date, end_date, reason, status, applied_date, manager_comment
    FROM leave_requests
    WHERE id = $1
    FOR UPDATE
  `, id).Scan(&req.ID, &req.UserID, &req.LeaveTypeID, &req.StartDate, &req.EndDate, &req.Reason, &req.Status, &req.AppliedDate, &req.ManagerComment)
	if errors.Is(err, pgx.ErrNoRows) {
		return LeaveRequest{}, ErrNotFound
	}
	if err != nil {
		return LeaveRequest{}, err
	}
	return req, nil
}

func (t *txStore) BalanceForUpdate(ctx context.Context, userID, leaveTypeID string) (LeaveBalance, error) {
	var b LeaveBalance
	err := t.tx.QueryRow(ctx, `
    SELECT id, user_id, leave_type_id, total_days, used_days
    FROM leave_balances
    WHERE user_id = $1 AND leave_type_id = $2
    FOR UPDATE
  `, userID, leaveTypeID).Scan(&b.ID, &b.UserID, &b.LeaveTypeID, &b.TotalDays, &b.UsedDays)
	if errors.Is(err, pgx.ErrNoRows) {
		return LeaveBalance{}, ErrNotFound
	}
	if err != nil {
		return LeaveBalance{}, err
	}
	return b, nil
}

func (t *txStore) GetUser(ctx context.Context, id string) (core.User, error) {
	var u core.User
	err := t.tx.QueryRow(ctx, `
    SELECT id, first_name, last_name, email, password_hash, role, manager_id
    FROM users
    WHERE id = $1
  `, id).Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Role, &u.ManagerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.User{}, core.ErrNotFound
	}
	if err != nil {
		return core.User{}, err
	}
	return u, nil
}

func (t *txStore) SetRequestStatus(ctx context.Context, id, status string, comment *string) error {
	_, err := t.tx.Exec(ctx, `
    UPDATE leave_requests SET status = $2, manager_comment = $3 WHERE id = $1
  `, id, status, comment)
	return err
}

func (t *txStore) DebitBalance(ctx context.Context, balanceID string, days int) error {
	_, err := t.tx.Exec(ctx, `
    UPDATE leave_balances SET used_days = used_days + $2 WHERE id = $1
  `, balanceID, days)
	return err
}
