package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// DonorID identifies a donor_form row. Valid ids are positive.
type DonorID int64

// ParseDonorID accepts the decimal form used in paths and form posts.
func ParseDonorID(s string) (DonorID, error) {
	n, err := parsePositiveID("donor id", s)
	return DonorID(n), err
}

func (id DonorID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Valid reports whether id can refer to a stored donor.
func (id DonorID) Valid() bool {
	return id > 0
}

// ScreeningOwnerID identifies the donor form a screening record belongs to.
type ScreeningOwnerID int64

func ParseScreeningOwnerID(s string) (ScreeningOwnerID, error) {
	n, err := parsePositiveID("screening owner id", s)
	return ScreeningOwnerID(n), err
}

func (id ScreeningOwnerID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

func parsePositiveID(name, s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%s is required: %w", name, ErrBadRequest)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s %q must be a positive integer: %w", name, s, ErrBadRequest)
	}
	return n, nil
}
