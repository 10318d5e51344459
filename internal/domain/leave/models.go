package leave

import "time"

const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

type LeaveType struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DefaultDays int    `json:"defaultDays"`
}

type LeaveBalance struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	LeaveTypeID string    `json:"leaveTypeId"`
	LeaveType   LeaveType `json:"leaveType"`
	TotalDays   int       `json:"totalDays"`
	UsedDays    int       `json:"usedDays"`
}

// Remaining is derived and never stored; a debit that would drive it
// negative is rejected, not clamped.
func (b LeaveBalance) Remaining() int {
	return b.TotalDays - b.UsedDays
}

type LeaveRequest struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	LeaveTypeID    string    `json:"leaveTypeId"`
	LeaveTypeName  string    `json:"leaveTypeName,omitempty"`
	StartDate      time.Time `json:"startDate"`
	EndDate        time.Time `json:"endDate"`
	Reason         string    `json:"reason"`
	Status         string    `json:"status"`
	AppliedDate    time.Time `json:"appliedDate"`
	ManagerComment *string   `json:"managerComment,omitempty"`
}

func (r LeaveRequest) Days() int {
	return DaysInclusive(r.StartDate, r.EndDate)
}
