package leave

import (
	"context"

	"smartleave/internal/domain/core"
)

// StoreAPI is the persistence surface the workflow runs against. The
// pgx implementation lives in this package; tests use the in-memory
// MemStore.
type StoreAPI interface {
	CreateRequest(ctx context.Context, req LeaveRequest) (LeaveRequest, error)
	GetRequest(ctx context.Context, id string) (LeaveRequest, error)
	ActiveRequests(ctx context.Context, userID string) ([]LeaveRequest, error)
	History(ctx context.Context, userID string, limit, offset int) ([]LeaveRequest, int, error)
	PendingForManager(ctx context.Context, managerID string) ([]LeaveRequest, error)
	GetBalance(ctx context.Context, userID, leaveTypeID string) (LeaveBalance, error)
	ListBalances(ctx context.Context, userID string) ([]LeaveBalance, error)
	ListTypes(ctx context.Context) ([]LeaveType, error)

	// WithTx runs fn inside one transaction. The decision critical
	// section (status check, debit, transition) must go through it;
	// any error from fn rolls the whole unit back.
	WithTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the transaction-scoped view used by approve and reject. Row
// reads take row-level locks so concurrent decisions serialize.
type Tx interface {
	RequestForUpdate(ctx context.Context, id string) (LeaveRequest, error)
	BalanceForUpdate(ctx context.Context, userID, leaveTypeID string) (LeaveBalance, error)
	GetUser(ctx context.Context, id string) (core.User, error)
	SetRequestStatus(ctx context.Context, id, status string, comment *string) error
	DebitBalance(ctx context.Context, balanceID string, days int) error
}
