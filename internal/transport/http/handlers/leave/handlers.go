package leavehandler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"smartleave/internal/auth"
	"smartleave/internal/domain/leave"
	"smartleave/internal/transport/http/api"
	"smartleave/internal/transport/http/middleware"
	"smartleave/internal/transport/http/shared"
)

type Handler struct {
	Service *leave.Service
}

func NewHandler(service *leave.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave", func(r chi.Router) {
		r.Get("/types", h.handleListTypes)
		r.With(middleware.RequireRole(auth.RoleEmployee)).Post("/requests", h.handleCreateRequest)
		r.With(middleware.RequireRole(auth.RoleEmployee)).Get("/requests", h.handleHistory)
		r.With(middleware.RequireRole(auth.RoleEmployee)).Get("/requests/export", h.handleExportHistory)
		r.With(middleware.RequireRole(auth.RoleEmployee)).Get("/balances", h.handleListBalances)
		r.With(middleware.RequireRole(auth.RoleManager)).Get("/requests/pending", h.handlePendingRequests)
		r.With(middleware.RequireRole(auth.RoleManager)).Post("/requests/{requestID}/approve", h.handleApproveRequest)
		r.With(middleware.RequireRole(auth.RoleManager)).Post("/requests/{requestID}/reject", h.handleRejectRequest)
	})
}

// failFromError maps workflow error kinds onto HTTP codes. Anything
// outside the business taxonomy is treated as a retryable storage
// failure and logged server-side.
func failFromError(w http.ResponseWriter, requestID string, err error) {
	var vErr *leave.ValidationError
	if errors.As(err, &vErr) {
		api.FailWithDetails(w, http.StatusBadRequest, "validation_error", "payload validation failed",
			map[string]string{"field": vErr.Field, "reason": vErr.Reason}, requestID)
		return
	}

	var balErr *leave.InsufficientBalanceError
	if errors.As(err, &balErr) {
		api.FailWithDetails(w, http.StatusUnprocessableEntity, "insufficient_balance", balErr.Error(),
			map[string]int{"available": balErr.Available, "requested": balErr.Requested}, requestID)
		return
	}

	switch {
	case errors.Is(err, leave.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "resource not found", requestID)
	case errors.Is(err, leave.ErrUnauthorized):
		api.Fail(w, http.StatusForbidden, "forbidden", err.Error(), requestID)
	case errors.Is(err, leave.ErrInvalidState):
		api.Fail(w, http.StatusConflict, "invalid_state", "request already decided", requestID)
	case errors.Is(err, leave.ErrConflict):
		api.Fail(w, http.StatusConflict, "conflict", "leave request overlaps with an existing leave", requestID)
	default:
		slog.Error("leave operation failed", "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "storage_error", "temporary failure, please retry", requestID)
	}
}

func (h *Handler) handleListTypes(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	types, err := h.Service.ListTypes(r.Context())
	if err != nil {
		failFromError(w, requestID, err)
		return
	}
	api.Success(w, types, requestID)
}

type createRequestPayload struct {
	LeaveTypeID string `json:"leaveTypeId"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Reason      string `json:"reason"`
}

func (h *Handler) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload createRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	if payload.LeaveTypeID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "leave type required", requestID)
		return
	}

	startDate, err := shared.ParseDate(payload.StartDate)
	if err != nil || startDate.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid start date", requestID)
		return
	}
	endDate, err := shared.ParseDate(payload.EndDate)
	if err != nil || endDate.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid end date", requestID)
		return
	}

	created, err := h.Service.CreateRequest(r.Context(), user.UserID, payload.LeaveTypeID, startDate, endDate, payload.Reason)
	if err != nil {
		failFromError(w, requestID, err)
		return
	}
	api.Created(w, created, requestID)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	page := shared.ParsePagination(r, 100, 500)
	requests, total, err := h.Service.History(r.Context(), user.UserID, page.Limit, page.Offset)
	if err != nil {
		failFromError(w, requestID, err)
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	api.Success(w, requests, requestID)
}

func (h *Handler) handlePendingRequests(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	requests, err := h.Service.PendingForManager(r.Context(), user.UserID)
	if err != nil {
		failFromError(w, requestID, err)
		return
	}
	api.Success(w, requests, requestID)
}

func (h *Handler) handleApproveRequest(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	approved, err := h.Service.Approve(r.Context(), user.UserID, chi.URLParam(r, "requestID"))
	if err != nil {
		failFromError(w, requestID, err)
		return
	}
	api.Success(w, approved, requestID)
}

type rejectPayload struct {
	Comment string `json:"comment"`
}

func (h *Handler) handleRejectRequest(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	// Body is optional; a rejection without comment is legal.
	var payload rejectPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	var comment *string
	if trimmed := strings.TrimSpace(payload.Comment); trimmed != "" {
		comment = &trimmed
	}

	rejected, err := h.Service.Reject(r.Context(), user.UserID, chi.URLParam(r, "requestID"), comment)
	if err != nil {
		failFromError(w, requestID, err)
		return
	}
	api.Success(w, rejected, requestID)
}

func (h *Handler) handleListBalances(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	balances, err := h.Service.ListBalances(r.Context(), user.UserID)
	if err != nil {
		failFromError(w, requestID, err)
		return
	}
	api.Success(w, balances, requestID)
}
