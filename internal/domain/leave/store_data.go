package leave

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

func (s *Store) CreateRequest(ctx context.Context, req LeaveRequest) (LeaveRequest, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO leave_requests (user_id, leave_type_id, start_date, end_date, reason, status, applied_date)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, req.UserID, req.LeaveTypeID, req.StartDate, req.EndDate, req.Reason, req.Status, req.AppliedDate).Scan(&req.ID)
	if err != nil {
		return LeaveRequest{}, err
	}
	return req, nil
}

func (s *Store) GetRequest(ctx context.Context, id string) (LeaveRequest, error) {
	var req LeaveRequest
	err := s.DB.QueryRow(ctx, `
    SELECT r.id, r.user_id, r.leave_type_id, lt.name, r.start_date, r.end_date, r.reason, r.status, r.applied_date, r.manager_comment
    FROM leave_requests r
    JOIN leave_types lt ON lt.id = r.leave_type_id
    WHERE r.id = $1
  `, id).Scan(&req.ID, &req.UserID, &req.LeaveTypeID, &req.LeaveTypeName, &req.StartDate, &req.EndDate, &req.Reason, &req.Status, &req.AppliedDate, &req.ManagerComment)
	if errors.Is(err, pgx.ErrNoRows) {
		return LeaveRequest{}, ErrNotFound
	}
	if err != nil {
		return LeaveRequest{}, err
	}
	return req, nil
}

func (s *Store) ActiveRequests(ctx context.Context, userID string) ([]LeaveRequest, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, user_id, leave_type_id, start_date, end_date, reason, status, applied_date
    FROM leave_requests
    WHERE user_id = $1 AND status <> $2
  `, userID, StatusRejected)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []LeaveRequest
	for rows.Next() {
		var req LeaveRequest
		if err := rows.Scan(&req.ID, &req.UserID, &req.LeaveTypeID, &req.StartDate, &req.EndDate, &req.Reason, &req.Status, &req.AppliedDate); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

func (s *Store) History(ctx context.Context, userID string, limit, offset int) ([]LeaveRequest, int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM leave_requests WHERE user_id = $1
  `, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT r.id, r.user_id, r.leave_type_id, lt.name, r.start_date, r.end_date, r.reason, r.status, r.applied_date, r.manager_comment
    FROM leave_requests r
    JOIN leave_types lt ON lt.id = r.leave_type_id
    WHERE r.user_id = $1
    ORDER BY r.applied_date DESC
    LIMIT $2 OFFSET $3
  `, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var requests []LeaveRequest
	for rows.Next() {
		var req LeaveRequest
		if err := rows.Scan(&req.ID, &req.UserID, &req.LeaveTypeID, &req.LeaveTypeName, &req.StartDate, &req.EndDate, &req.Reason, &req.Status, &req.AppliedDate, &req.ManagerComment); err != nil {
			return nil, 0, err
		}
		requests = append(requests, req)
	}
	return requests, total, rows.Err()
}

func (s *Store) PendingForManager(ctx context.Context, managerID string) ([]LeaveRequest, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT r.id, r.user_id, r.leave_type_id, lt.name, r.start_date, r.end_date, r.reason, r.status, r.applied_date
    FROM leave_requests r
    JOIN users u ON u.id = r.user_id
    JOIN leave_types lt ON lt.id = r.leave_type_id
    WHERE u.manager_id = $1 AND r.status = $2
    ORDER BY r.start_date
  `, managerID, StatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []LeaveRequest
	for rows.Next() {
		var req LeaveRequest
		if err := rows.Scan(&req.ID, &req.UserID, &req.LeaveTypeID, &req.LeaveTypeName, &req.StartDate, &req.EndDate, &req.Reason, &req.Status, &req.AppliedDate); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

func (s *Store) GetBalance(ctx context.Context, userID, leaveTypeID string) (LeaveBalance, error) {
	var b LeaveBalance
	err := s.DB.QueryRow(ctx, `
    SELECT b.id, b.user_id, b.leave_type_id, b.total_days, b.used_days, lt.id, lt.name, lt.default_days
    FROM leave_balances b
    JOIN leave_types lt ON lt.id = b.leave_type_id
    WHERE b.user_id = $1 AND b.leave_type_id = $2
  `, userID, leaveTypeID).Scan(&b.ID, &b.UserID, &b.LeaveTypeID, &b.TotalDays, &b.UsedDays, &b.LeaveType.ID, &b.LeaveType.Name, &b.LeaveType.DefaultDays)
	if errors.Is(err, pgx.ErrNoRows) {
		return LeaveBalance{}, ErrNotFound
	}
	if err != nil {
		return LeaveBalance{}, err
	}
	return b, nil
}

func (s *Store) ListBalances(ctx context.Context, userID string) ([]LeaveBalance, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT b.id, b.user_id, b.leave_type_id, b.total_days, b.used_days, lt.id, lt.name, lt.default_days
    FROM leave_balances b
    JOIN leave_types lt ON lt.id = b.leave_type_id
    WHERE b.user_id = $1
  `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []LeaveBalance
	for rows.Next() {
		var b LeaveBalance
		if err := rows.Scan(&b.ID, &b.UserID, &b.LeaveTypeID, &b.TotalDays, &b.UsedDays, &b.LeaveType.ID, &b.LeaveType.Name, &b.LeaveType.DefaultDays); err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

func (s *Store) ListTypes(ctx context.Context) ([]LeaveType, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, default_days
    FROM leave_types
    ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []LeaveType
	for rows.Next() {
		var t LeaveType
		if err := rows.Scan(&t.ID, &t.Name, &t.DefaultDays); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}
