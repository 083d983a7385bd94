package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// Date is a calendar date that serializes as YYYY-MM-DD, with no time
// component, regardless of internal storage precision.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar date.
func NewDate(t time.Time) Date {
	return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	t, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = t
	return nil
}

// ParseDate accepts a date-only string or an RFC 3339 timestamp, keeping the
// calendar date in either case.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return NewDate(t), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return NewDate(t), nil
	}
	return Date{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
}

// RentEntry is one month in a shop's rent ledger. Entries keep insertion
// order; months are not required to be unique.
type RentEntry struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

// Shop represents a leased unit owned by exactly one admin.
type Shop struct {
	ID        uuid.UUID   `json:"id"`
	AdminID   uuid.UUID   `json:"admin_id"`
	Name      string      `json:"name"`
	Keeper    string      `json:"keeper"`
	Base      float64     `json:"base"`
	Advance   float64     `json:"advance"`
	Start     Date        `json:"start"`
	Rents     []RentEntry `json:"rents"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
