package domain

import (
	"fmt"
	"strings"
)

// Role is the closed set of account roles. Stored records carry the legacy
// integer code (role_id); everything past the store boundary uses Role.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleHospital Role = "hospital"
	RoleStaff    Role = "staff"
)

// roleByCode is the exhaustive stored-code table. A code missing here is
// rejected rather than defaulted.
var roleByCode = map[int]Role{
	1: RoleAdmin,
	2: RoleHospital,
	3: RoleStaff,
}

// RoleFromCode maps a stored role_id to its Role.
func RoleFromCode(code int) (Role, error) {
	r, ok := roleByCode[code]
	if !ok {
		return "", fmt.Errorf("unknown role code %d: %w", code, ErrBadRequest)
	}
	return r, nil
}

// Code returns the stored role_id for r, or 0 for an unknown role.
func (r Role) Code() int {
	for code, role := range roleByCode {
		if role == r {
			return code
		}
	}
	return 0
}

// ParseRole accepts a role name as carried in a session token.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if r.Code() == 0 {
		return "", fmt.Errorf("unknown role %q: %w", s, ErrBadRequest)
	}
	return r, nil
}

// StaffRole narrows RoleStaff accounts to their intake station.
type StaffRole string

const (
	StaffNone        StaffRole = ""
	StaffReviewer    StaffRole = "reviewer"
	StaffInterviewer StaffRole = "interviewer"
	StaffPhysician   StaffRole = "physician"
)

// ParseStaffRole normalises the free-text user_staff_roles column.
func ParseStaffRole(s string) (StaffRole, error) {
	switch sr := StaffRole(strings.ToLower(strings.TrimSpace(s))); sr {
	case StaffNone, StaffReviewer, StaffInterviewer, StaffPhysician:
		return sr, nil
	default:
		return StaffNone, fmt.Errorf("unknown staff role %q: %w", s, ErrBadRequest)
	}
}
