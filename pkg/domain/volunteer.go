package domain

import (
	"regexp"
	"strings"
)

type VolunteerStatus int

const (
	VolunteerUnavailable VolunteerStatus = iota
	VolunteerAvailable
)

func (s VolunteerStatus) String() string {
	if s == VolunteerAvailable {
		return "Available"
	}
	return "Unavailable"
}

// ParseVolunteerStatus treats everything but "available" as unavailable.
func ParseVolunteerStatus(raw string) VolunteerStatus {
	if strings.ToLower(strings.TrimSpace(raw)) == "available" {
		return VolunteerAvailable
	}
	return VolunteerUnavailable
}

// VolunteerRecord is one row of the volunteer sheet. RawStatus keeps the cell text for display.
type VolunteerRecord struct {
	Name      string          `json:"name"`
	Contact   string          `json:"contact"`
	Status    VolunteerStatus `json:"-"`
	RawStatus string          `json:"status"`
}

func NewVolunteerRecord(name, contact, status string) VolunteerRecord {
	return VolunteerRecord{
		Name:      strings.TrimSpace(name),
		Contact:   strings.TrimSpace(contact),
		Status:    ParseVolunteerStatus(status),
		RawStatus: strings.TrimSpace(status),
	}
}

var nonDialable = regexp.MustCompile(`[^\d+]`)

// PhoneNumber strips everything that cannot be dialed. Empty means there is nothing to call.
func (v VolunteerRecord) PhoneNumber() string {
	return nonDialable.ReplaceAllString(v.Contact, "")
}
