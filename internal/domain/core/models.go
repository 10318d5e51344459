package core

// User is the directory record the leave workflow reads. It is created
// at provisioning time and read-only here. ManagerID is set only for
// employees and points at the single direct manager; the hierarchy is
// never deeper than one level.
type User struct {
	ID           string  `json:"id"`
	FirstName    string  `json:"firstName"`
	LastName     string  `json:"lastName"`
	Email        string  `json:"email"`
	PasswordHash string  `json:"-"`
	Role         string  `json:"role"`
	ManagerID    *string `json:"managerId,omitempty"`
}

// ReportsTo reports whether managerID is this user's direct manager.
// It fails closed when no manager is assigned.
func (u User) ReportsTo(managerID string) bool {
	return u.ManagerID != nil && *u.ManagerID == managerID
}
