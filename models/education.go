package models

import (
	"strings"
	"time"
)

type Education struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      string    `gorm:"size:36;not null;index" json:"user_id"`
	Degree      string    `gorm:"size:255;not null" json:"degree" validate:"required,notblank,max=255"`
	Institution string    `gorm:"size:255;not null" json:"institution" validate:"required,notblank,max=255"`
	StartDate   Date      `gorm:"not null;index" json:"start_date" validate:"required"`
	EndDate     *Date     `json:"end_date"` // NULL while ongoing
	Description string    `gorm:"type:text;not null" json:"description" validate:"required,notblank"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-" validate:"-"`
}

func (Education) TableName() string {
	return "education"
}

func (e *Education) RecordID() uint { return e.ID }
func (e *Education) SetID(id uint) { e.ID = id }
func (e *Education) OwnerID() string { return e.UserID }
func (e *Education) SetOwner(userID string) { e.UserID = userID }

func (e *Education) SortKeys() []SortKey {
	return []SortKey{{Column: "start_date", Desc: true}, {Column: "id", Desc: true}}
}

func (e Education) DateRange() (Date, *Date) {
	return e.StartDate, e.EndDate
}

func (e *Education) Normalize() {
	e.Degree = strings.TrimSpace(e.Degree)
	e.Institution = strings.TrimSpace(e.Institution)
	e.Description = strings.TrimSpace(e.Description)
}

func (e *Education) Validate() error {
	return validateRecord(e.TableName(), e)
}

// IsCompleted returns true if the education has an end date.
func (e *Education) IsCompleted() bool {
	return e.EndDate != nil
}

func (e *Education) String() string {
	return e.Degree + " at " + e.Institution
}
