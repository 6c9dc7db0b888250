package models

import (
	"strings"
	"time"
)

type Project struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      string    `gorm:"size:36;not null;index" json:"user_id"`
	ProjectName string    `gorm:"size:255;not null" json:"project_name" validate:"required,notblank,max=255"`
	StartDate   Date      `gorm:"not null;index" json:"start_date" validate:"required"`
	EndDate     *Date     `json:"end_date"`
	Description string    `gorm:"type:text;not null" json:"description" validate:"required,notblank"`
	ProjectURL  string    `gorm:"size:200;not null;default:''" json:"project_url" validate:"omitempty,max=200,web_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-" validate:"-"`
}

func (Project) TableName() string {
	return "project"
}

func (p *Project) RecordID() uint { return p.ID }
func (p *Project) SetID(id uint) { p.ID = id }
func (p *Project) OwnerID() string { return p.UserID }
func (p *Project) SetOwner(userID string) { p.UserID = userID }

func (p *Project) SortKeys() []SortKey {
	return []SortKey{{Column: "start_date", Desc: true}, {Column: "id", Desc: true}}
}

func (p Project) DateRange() (Date, *Date) {
	return p.StartDate, p.EndDate
}

func (p *Project) Normalize() {
	p.ProjectName = strings.TrimSpace(p.ProjectName)
	p.Description = strings.TrimSpace(p.Description)
	p.ProjectURL = strings.TrimSpace(p.ProjectURL)
}

func (p *Project) Validate() error {
	return validateRecord(p.TableName(), p)
}

func (p *Project) String() string {
	return p.ProjectName
}
