package models

import (
	"strings"
	"time"
)

type WorkExperience struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      string    `gorm:"size:36;not null;index" json:"user_id"`
	JobTitle    string    `gorm:"size:255;not null" json:"job_title" validate:"required,notblank,max=255"`
	Employer    string    `gorm:"size:255;not null" json:"employer" validate:"required,notblank,max=255"`
	StartDate   Date      `gorm:"not null;index" json:"start_date" validate:"required"`
	EndDate     *Date     `json:"end_date"` // NULL for the current position
	Description string    `gorm:"type:text;not null" json:"description" validate:"required,notblank"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-" validate:"-"`
}

func (WorkExperience) TableName() string {
	return "work_experience"
}

func (w *WorkExperience) RecordID() uint { return w.ID }
func (w *WorkExperience) SetID(id uint) { w.ID = id }
func (w *WorkExperience) OwnerID() string { return w.UserID }
func (w *WorkExperience) SetOwner(userID string) { w.UserID = userID }

func (w *WorkExperience) SortKeys() []SortKey {
	return []SortKey{{Column: "start_date", Desc: true}, {Column: "id", Desc: true}}
}

func (w WorkExperience) DateRange() (Date, *Date) {
	return w.StartDate, w.EndDate
}

func (w *WorkExperience) Normalize() {
	w.JobTitle = strings.TrimSpace(w.JobTitle)
	w.Employer = strings.TrimSpace(w.Employer)
	w.Description = strings.TrimSpace(w.Description)
}

func (w *WorkExperience) Validate() error {
	return validateRecord(w.TableName(), w)
}

// IsCurrent reports whether the position is still held.
func (w *WorkExperience) IsCurrent() bool {
	return w.EndDate == nil
}

func (w *WorkExperience) String() string {
	return w.JobTitle + " at " + w.Employer
}
