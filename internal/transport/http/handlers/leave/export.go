package leavehandler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jung-kurt/gofpdf"

	"smartleave/internal/domain/leave"
	"smartleave/internal/transport/http/api"
	"smartleave/internal/transport/http/middleware"
)

func (h *Handler) handleExportHistory(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	requests, _, err := h.Service.History(r.Context(), user.UserID, 500, 0)
	if err != nil {
		failFromError(w, requestID, err)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Leave History")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(40, 8, "Type", "1", 0, "", false, 0, "")
	pdf.CellFormat(28, 8, "Start", "1", 0, "", false, 0, "")
	pdf.CellFormat(28, 8, "End", "1", 0, "", false, 0, "")
	pdf.CellFormat(15, 8, "Days", "1", 0, "", false, 0, "")
	pdf.CellFormat(25, 8, "Status", "1", 0, "", false, 0, "")
	pdf.CellFormat(54, 8, "Reason", "1", 1, "", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, req := range requests {
		pdf.CellFormat(40, 8, req.LeaveTypeName, "1", 0, "", false, 0, "")
		pdf.CellFormat(28, 8, req.StartDate.Format("2006-01-02"), "1", 0, "", false, 0, "")
		pdf.CellFormat(28, 8, req.EndDate.Format("2006-01-02"), "1", 0, "", false, 0, "")
		pdf.CellFormat(15, 8, fmt.Sprintf("%d", leave.DaysInclusive(req.StartDate, req.EndDate)), "1", 0, "", false, 0, "")
		pdf.CellFormat(25, 8, req.Status, "1", 0, "", false, 0, "")
		pdf.CellFormat(54, 8, req.Reason, "1", 1, "", false, 0, "")
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=leave-history.pdf")
	if err := pdf.Output(w); err != nil {
		slog.Warn("leave history export write failed", "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to render export", requestID)
	}
}
