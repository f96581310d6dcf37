package domain

import (
	"time"
)

// Followup is the contact record a student leaves so admissions staff can
// reach out later. At most one per chat; saving again overwrites it.
type Followup struct {
	ChatID        string    `json:"chat_id"`
	StudentEmail  string    `json:"student_email"`
	StudentPhone  string    `json:"student_phone"`
	PreferredTime string    `json:"preferred_time"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Empty reports whether the record carries no contact details at all.
func (f *Followup) Empty() bool {
	return f.StudentEmail == "" && f.StudentPhone == "" && f.PreferredTime == ""
}
