package leave

import (
	"context"
	"errors"
	"strings"
	"time"

	"smartleave/internal/domain/core"
)

type Service struct {
	Store StoreAPI

	// Now is swappable for tests; defaults to time.Now.
	Now func() time.Time
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store, Now: time.Now}
}

// CreateRequest validates and persists a new Pending request for the
// given employee. Balance sufficiency and overlap are checked here as
// a best-effort gate; sufficiency is re-validated under lock at
// approval time.
func (s *Service) CreateRequest(ctx context.Context, userID, leaveTypeID string, startDate, endDate time.Time, reason string) (LeaveRequest, error) {
	start := DateOnly(startDate)
	end := DateOnly(endDate)

	if start.After(end) {
		return LeaveRequest{}, &ValidationError{Field: "startDate", Reason: "must be on or before endDate"}
	}
	if start.Before(DateOnly(s.Now())) {
		return LeaveRequest{}, &ValidationError{Field: "startDate", Reason: "cannot apply for past dates"}
	}
	if strings.TrimSpace(reason) == "" {
		return LeaveRequest{}, &ValidationError{Field: "reason", Reason: "is required"}
	}

	balance, err := s.Store.GetBalance(ctx, userID, leaveTypeID)
	if err != nil {
		return LeaveRequest{}, err
	}

	requested := DaysInclusive(start, end)
	if balance.Remaining() < requested {
		return LeaveRequest{}, &InsufficientBalanceError{Available: balance.Remaining(), Requested: requested}
	}

	overlap, err := s.hasOverlap(ctx, userID, start, end, "")
	if err != nil {
		return LeaveRequest{}, err
	}
	if overlap {
		return LeaveRequest{}, ErrConflict
	}

	return s.Store.CreateRequest(ctx, LeaveRequest{
		UserID:      userID,
		LeaveTypeID: leaveTypeID,
		StartDate:   start,
		EndDate:     end,
		Reason:      strings.TrimSpace(reason),
		Status:      StatusPending,
		AppliedDate: s.Now().UTC(),
	})
}

// hasOverlap checks the candidate range against every non-Rejected
// request of the user. excludeID makes the check reusable for edits of
// an existing request; creation passes "".
func (s *Service) hasOverlap(ctx context.Context, userID string, start, end time.Time, excludeID string) (bool, error) {
	existing, err := s.Store.ActiveRequests(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, r := range existing {
		if excludeID != "" && r.ID == excludeID {
			continue
		}
		if RangesOverlap(start, end, r.StartDate, r.EndDate) {
			return true, nil
		}
	}
	return false, nil
}

// Approve transitions a Pending request to Approved and debits the
// owner's balance by the request's day count. The whole decision runs
// in one transaction: status and balance are re-read under row locks,
// so of two concurrent approvals exactly one succeeds and the balance
// is debited at most once.
func (s *Service) Approve(ctx context.Context, managerID, requestID string) (LeaveRequest, error) {
	var approved LeaveRequest
	err := s.Store.WithTx(ctx, func(tx Tx) error {
		req, err := tx.RequestForUpdate(ctx, requestID)
		if err != nil {
			return err
		}

		employee, err := tx.GetUser(ctx, req.UserID)
		if errors.Is(err, core.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if !employee.ReportsTo(managerID) {
			return &UnauthorizedError{ManagerID: managerID, EmployeeID: employee.ID}
		}

		if req.Status != StatusPending {
			return ErrInvalidState
		}

		balance, err := tx.BalanceForUpdate(ctx, req.UserID, req.LeaveTypeID)
		if err != nil {
			return err
		}

		// Balance may have eroded since creation; re-validate at the
		// moment of debit.
		days := req.Days()
		if balance.Remaining() < days {
			return &InsufficientBalanceError{Available: balance.Remaining(), Requested: days}
		}

		if err := tx.DebitBalance(ctx, balance.ID, days); err != nil {
			return err
		}
		if err := tx.SetRequestStatus(ctx, req.ID, StatusApproved, nil); err != nil {
			return err
		}

		req.Status = StatusApproved
		approved = req
		return nil
	})
	if err != nil {
		return LeaveRequest{}, err
	}
	return approved, nil
}

// Reject transitions a Pending request to Rejected and stores the
// optional manager comment. The balance is untouched.
func (s *Service) Reject(ctx context.Context, managerID, requestID string, comment *string) (LeaveRequest, error) {
	var rejected LeaveRequest
	err := s.Store.WithTx(ctx, func(tx Tx) error {
		req, err := tx.RequestForUpdate(ctx, requestID)
		if err != nil {
			return err
		}

		employee, err := tx.GetUser(ctx, req.UserID)
		if errors.Is(err, core.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if !employee.ReportsTo(managerID) {
			return &UnauthorizedError{ManagerID: managerID, EmployeeID: employee.ID}
		}

		if req.Status != StatusPending {
			return ErrInvalidState
		}

		if err := tx.SetRequestStatus(ctx, req.ID, StatusRejected, comment); err != nil {
			return err
		}

		req.Status = StatusRejected
		req.ManagerComment = comment
		rejected = req
		return nil
	})
	if err != nil {
		return LeaveRequest{}, err
	}
	return rejected, nil
}

// History returns the user's requests, newest appliedDate first.
func (s *Service) History(ctx context.Context, userID string, limit, offset int) ([]LeaveRequest, int, error) {
	return s.Store.History(ctx, userID, limit, offset)
}

// PendingForManager returns Pending requests owned by the manager's
// direct reports, soonest start date first.
func (s *Service) PendingForManager(ctx context.Context, managerID string) ([]LeaveRequest, error) {
	return s.Store.PendingForManager(ctx, managerID)
}

func (s *Service) ListBalances(ctx context.Context, userID string) ([]LeaveBalance, error) {
	return s.Store.ListBalances(ctx, userID)
}

func (s *Service) ListTypes(ctx context.Context) ([]LeaveType, error) {
	return s.Store.ListTypes(ctx)
}
