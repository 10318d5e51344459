package leavehandler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"smartleave/internal/auth"
	"smartleave/internal/domain/core"
	"smartleave/internal/domain/leave"
	"smartleave/internal/transport/http/middleware"
)

const testSecret = "test-secret"

type testEnv struct {
	router        *chi.Mux
	store         *leave.MemStore
	managerToken  string
	employeeToken string
	employee      core.User
	casualTypeID  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := leave.NewMemStore()
	manager := store.SeedUser(core.User{FirstName: "Admin", LastName: "Manager", Email: "manager@test.com", Role: auth.RoleManager})
	employee := store.SeedUser(core.User{FirstName: "John", LastName: "Doe", Email: "employee@test.com", Role: auth.RoleEmployee, ManagerID: &manager.ID})
	casual := store.SeedType(leave.LeaveType{Name: "Casual Leave", DefaultDays: 12})
	store.SeedBalance(leave.LeaveBalance{UserID: employee.ID, LeaveTypeID: casual.ID, TotalDays: 12})

	svc := leave.NewService(store)
	svc.Now = func() time.Time { return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) }

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Auth(testSecret))
	NewHandler(svc).RegisterRoutes(router)

	managerToken, err := auth.GenerateToken(testSecret, auth.Claims{UserID: manager.ID, Role: auth.RoleManager}, time.Hour)
	if err != nil {
		t.Fatalf("manager token: %v", err)
	}
	employeeToken, err := auth.GenerateToken(testSecret, auth.Claims{UserID: employee.ID, Role: auth.RoleEmployee}, time.Hour)
	if err != nil {
		t.Fatalf("employee token: %v", err)
	}

	return &testEnv{
		router:        router,
		store:         store,
		managerToken:  managerToken,
		employeeToken: employeeToken,
		employee:      employee,
		casualTypeID:  casual.ID,
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Error     *envelopeError  `json:"error"`
	RequestID string          `json:"requestId"`
}

type envelopeError struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %q)", err, rec.Body.String())
	}
	return env
}

func (e *testEnv) createRequest(t *testing.T, start, end string) leave.LeaveRequest {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/leave/requests", e.employeeToken, map[string]string{
		"leaveTypeId": e.casualTypeID,
		"startDate":   start,
		"endDate":     end,
		"reason":      "family trip",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	var created leave.LeaveRequest
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode created request: %v", err)
	}
	return created
}

func TestLeaveWorkflow(t *testing.T) {
	env := newTestEnv(t)

	created := env.createRequest(t, "2026-03-10", "2026-03-12")
	if created.Status != leave.StatusPending {
		t.Fatalf("Status = %q, want %q", created.Status, leave.StatusPending)
	}

	// Manager sees it in the pending queue.
	rec := env.do(t, http.MethodGet, "/leave/requests/pending", env.managerToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("pending status = %d", rec.Code)
	}
	var pending []leave.LeaveRequest
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &pending); err != nil {
		t.Fatalf("decode pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != created.ID {
		t.Fatalf("pending = %+v, want the created request", pending)
	}

	// Approve and verify the balance moved.
	rec = env.do(t, http.MethodPost, fmt.Sprintf("/leave/requests/%s/approve", created.ID), env.managerToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("approve status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, "/leave/balances", env.employeeToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("balances status = %d", rec.Code)
	}
	var balances []leave.LeaveBalance
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &balances); err != nil {
		t.Fatalf("decode balances: %v", err)
	}
	if len(balances) != 1 || balances[0].UsedDays != 3 {
		t.Fatalf("balances = %+v, want one with UsedDays 3", balances)
	}

	// History shows the decided request.
	rec = env.do(t, http.MethodGet, "/leave/requests", env.employeeToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("history status = %d", rec.Code)
	}
	if got := rec.Header().Get("X-Total-Count"); got != "1" {
		t.Fatalf("X-Total-Count = %q, want 1", got)
	}
}

func TestRejectWorkflow(t *testing.T) {
	env := newTestEnv(t)
	created := env.createRequest(t, "2026-03-10", "2026-03-12")

	rec := env.do(t, http.MethodPost, fmt.Sprintf("/leave/requests/%s/reject", created.ID), env.managerToken,
		map[string]string{"comment": "short-staffed that week"})
	if rec.Code != http.StatusOK {
		t.Fatalf("reject status = %d, body %s", rec.Code, rec.Body.String())
	}
	var rejected leave.LeaveRequest
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &rejected); err != nil {
		t.Fatalf("decode rejected: %v", err)
	}
	if rejected.Status != leave.StatusRejected {
		t.Fatalf("Status = %q, want %q", rejected.Status, leave.StatusRejected)
	}
	if rejected.ManagerComment == nil || *rejected.ManagerComment != "short-staffed that week" {
		t.Fatalf("ManagerComment = %v", rejected.ManagerComment)
	}

	// A second decision is a conflict.
	rec = env.do(t, http.MethodPost, fmt.Sprintf("/leave/requests/%s/approve", created.ID), env.managerToken, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("approve-after-reject status = %d, want 409", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Error == nil || env.Error.Code != "invalid_state" {
		t.Fatalf("error = %+v, want invalid_state", env.Error)
	}
}

func TestCreateRequestErrors(t *testing.T) {
	env := newTestEnv(t)

	t.Run("validation error", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/leave/requests", env.employeeToken, map[string]string{
			"leaveTypeId": env.casualTypeID,
			"startDate":   "2026-03-12",
			"endDate":     "2026-03-10",
			"reason":      "trip",
		})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		if e := decodeEnvelope(t, rec).Error; e == nil || e.Code != "validation_error" {
			t.Fatalf("error = %+v, want validation_error", e)
		}
	})

	t.Run("insufficient balance", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/leave/requests", env.employeeToken, map[string]string{
			"leaveTypeId": env.casualTypeID,
			"startDate":   "2026-03-10",
			"endDate":     "2026-03-25",
			"reason":      "long trip",
		})
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want 422", rec.Code)
		}
		e := decodeEnvelope(t, rec).Error
		if e == nil || e.Code != "insufficient_balance" {
			t.Fatalf("error = %+v, want insufficient_balance", e)
		}
		var details struct {
			Available int `json:"available"`
			Requested int `json:"requested"`
		}
		if err := json.Unmarshal(e.Details, &details); err != nil {
			t.Fatalf("decode details: %v", err)
		}
		if details.Available != 12 || details.Requested != 16 {
			t.Fatalf("details = %+v, want 12/16", details)
		}
	})

	t.Run("overlap conflict", func(t *testing.T) {
		env := newTestEnv(t)
		env.createRequest(t, "2026-03-10", "2026-03-12")
		rec := env.do(t, http.MethodPost, "/leave/requests", env.employeeToken, map[string]string{
			"leaveTypeId": env.casualTypeID,
			"startDate":   "2026-03-11",
			"endDate":     "2026-03-14",
			"reason":      "second",
		})
		if rec.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409", rec.Code)
		}
		if e := decodeEnvelope(t, rec).Error; e == nil || e.Code != "conflict" {
			t.Fatalf("error = %+v, want conflict", e)
		}
	})

	t.Run("missing type balance", func(t *testing.T) {
		unknown := env.store.SeedType(leave.LeaveType{Name: "Sick Leave", DefaultDays: 10})
		rec := env.do(t, http.MethodPost, "/leave/requests", env.employeeToken, map[string]string{
			"leaveTypeId": unknown.ID,
			"startDate":   "2026-06-01",
			"endDate":     "2026-06-02",
			"reason":      "flu",
		})
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})
}

func TestAuthGates(t *testing.T) {
	env := newTestEnv(t)

	t.Run("no token", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/leave/requests", "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("employee cannot approve", func(t *testing.T) {
		created := env.createRequest(t, "2026-03-10", "2026-03-12")
		rec := env.do(t, http.MethodPost, fmt.Sprintf("/leave/requests/%s/approve", created.ID), env.employeeToken, nil)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("manager cannot submit requests", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/leave/requests", env.managerToken, map[string]string{
			"leaveTypeId": env.casualTypeID,
			"startDate":   "2026-03-10",
			"endDate":     "2026-03-12",
			"reason":      "trip",
		})
		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("non-manager cannot decide for unrelated employee", func(t *testing.T) {
		env := newTestEnv(t)
		created := env.createRequest(t, "2026-03-10", "2026-03-12")

		otherToken, err := auth.GenerateToken(testSecret, auth.Claims{UserID: "someone-else", Role: auth.RoleManager}, time.Hour)
		if err != nil {
			t.Fatalf("token: %v", err)
		}
		rec := env.do(t, http.MethodPost, fmt.Sprintf("/leave/requests/%s/approve", created.ID), otherToken, nil)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("types listing needs any authenticated user", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/leave/types", env.employeeToken, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		rec = env.do(t, http.MethodGet, "/leave/types", "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})
}

func TestExportHistory(t *testing.T) {
	env := newTestEnv(t)
	env.createRequest(t, "2026-03-10", "2026-03-12")

	rec := env.do(t, http.MethodGet, "/leave/requests/export", env.employeeToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("Content-Type = %q, want application/pdf", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Fatal("body does not look like a PDF")
	}
}
