package leave

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"smartleave/internal/domain/core"
)

// MemStore is an in-memory StoreAPI used by tests and local runs
// without Postgres. WithTx simulates the transactional unit with a
// snapshot restored on error, under one lock so decisions serialize
// exactly like the row-locked SQL path.
type MemStore struct {
	mu       sync.RWMutex
	users    map[string]core.User
	types    map[string]LeaveType
	balances map[string]LeaveBalance
	requests map[string]LeaveRequest
}

func NewMemStore() *MemStore {
	return &MemStore{
		users:    make(map[string]core.User),
		types:    make(map[string]LeaveType),
		balances: make(map[string]LeaveBalance),
		requests: make(map[string]LeaveRequest),
	}
}

func (m *MemStore) SeedUser(u core.User) core.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	m.users[u.ID] = u
	return u
}

func (m *MemStore) SeedType(t LeaveType) LeaveType {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	m.types[t.ID] = t
	return t
}

func (m *MemStore) SeedBalance(b LeaveBalance) LeaveBalance {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if t, ok := m.types[b.LeaveTypeID]; ok {
		b.LeaveType = t
	}
	m.balances[b.ID] = b
	return b
}

func (m *MemStore) CreateRequest(_ context.Context, req LeaveRequest) (LeaveRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	req.ID = uuid.NewString()
	if t, ok := m.types[req.LeaveTypeID]; ok {
		req.LeaveTypeName = t.Name
	}
	m.requests[req.ID] = req
	return req, nil
}

func (m *MemStore) GetRequest(_ context.Context, id string) (LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	req, ok := m.requests[id]
	if !ok {
		return LeaveRequest{}, ErrNotFound
	}
	return req, nil
}

func (m *MemStore) ActiveRequests(_ context.Context, userID string) ([]LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []LeaveRequest
	for _, req := range m.requests {
		if req.UserID == userID && req.Status != StatusRejected {
			out = append(out, req)
		}
	}
	return out, nil
}

func (m *MemStore) History(_ context.Context, userID string, limit, offset int) ([]LeaveRequest, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []LeaveRequest
	for _, req := range m.requests {
		if req.UserID == userID {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AppliedDate.Equal(out[j].AppliedDate) {
			return out[i].ID > out[j].ID
		}
		return out[i].AppliedDate.After(out[j].AppliedDate)
	})

	total := len(out)
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, total, nil
}

func (m *MemStore) PendingForManager(_ context.Context, managerID string) ([]LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []LeaveRequest
	for _, req := range m.requests {
		if req.Status != StatusPending {
			continue
		}
		owner, ok := m.users[req.UserID]
		if !ok || !owner.ReportsTo(managerID) {
			continue
		}
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartDate.Before(out[j].StartDate)
	})
	return out, nil
}

func (m *MemStore) GetBalance(_ context.Context, userID, leaveTypeID string) (LeaveBalance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.balanceLocked(userID, leaveTypeID)
}

func (m *MemStore) balanceLocked(userID, leaveTypeID string) (LeaveBalance, error) {
	for _, b := range m.balances {
		if b.UserID == userID && b.LeaveTypeID == leaveTypeID {
			return b, nil
		}
	}
	return LeaveBalance{}, ErrNotFound
}

func (m *MemStore) ListBalances(_ context.Context, userID string) ([]LeaveBalance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []LeaveBalance
	for _, b := range m.balances {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *MemStore) ListTypes(_ context.Context) ([]LeaveType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]LeaveType, 0, len(m.types))
	for _, t := range m.types {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemStore) WithTx(_ context.Context, fn func(tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.snapshotLocked()
	if err := fn(&memTx{store: m}); err != nil {
		m.balances = snapshot.balances
		m.requests = snapshot.requests
		return err
	}
	return nil
}

type memSnapshot struct {
	balances map[string]LeaveBalance
	requests map[string]LeaveRequest
}

func (m *MemStore) snapshotLocked() memSnapshot {
	balances := make(map[string]LeaveBalance, len(m.balances))
	for id, b := range m.balances {
		balances[id] = b
	}
	requests := make(map[string]LeaveRequest, len(m.requests))
	for id, r := range m.requests {
		requests[id] = r
	}
	return memSnapshot{balances: balances, requests: requests}
}

// memTx runs with the store lock already held.
type memTx struct {
	store *MemStore
}

func (t *memTx) RequestForUpdate(_ context.Context, id string) (LeaveRequest, error) {
	req, ok := t.store.requests[id]
	if !ok {
		return LeaveRequest{}, ErrNotFound
	}
	return req, nil
}

func (t *memTx) BalanceForUpdate(_ context.Context, userID, leaveTypeID string) (LeaveBalance, error) {
	return t.store.balanceLocked(userID, leaveTypeID)
}

func (t *memTx) GetUser(_ context.Context, id string) (core.User, error) {
	u, ok := t.store.users[id]
	if !ok {
		return core.User{}, core.ErrNotFound
	}
	return u, nil
}

func (t *memTx) SetRequestStatus(_ context.Context, id, status string, comment *string) error {
	req, ok := t.store.requests[id]
	if !ok {
		return ErrNotFound
	}
	req.Status = status
	req.ManagerComment = comment
	t.store.requests[id] = req
	return nil
}

func (t *memTx) DebitBalance(_ context.Context, balanceID string, days int) error {
	b, ok := t.store.balances[balanceID]
	if !ok {
		return ErrNotFound
	}
	b.UsedDays += days
	t.store.balances[balanceID] = b
	return nil
}
