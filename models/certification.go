package models

import (
	"strings"
	"time"
)

type Certification struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	UserID              string    `gorm:"size:36;not null;index" json:"user_id"`
	CertificationName   string    `gorm:"size:255;not null" json:"certification_name" validate:"required,notblank,max=255"`
	CertifyingAuthority string    `gorm:"size:255;not null" json:"certifying_authority" validate:"required,notblank,max=255"`
	DateReceived        Date      `gorm:"not null;index" json:"date_received" validate:"required"`
	Description         string    `gorm:"type:text;not null" json:"description" validate:"required,notblank"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-" validate:"-"`
}

func (Certification) TableName() string {
	return "certification"
}

func (c *Certification) RecordID() uint { return c.ID }
func (c *Certification) SetID(id uint) { c.ID = id }
func (c *Certification) OwnerID() string { return c.UserID }
func (c *Certification) SetOwner(userID string) { c.UserID = userID }

func (c *Certification) SortKeys() []SortKey {
	return []SortKey{{Column: "date_received", Desc: true}, {Column: "id", Desc: true}}
}

func (c *Certification) Normalize() {
	c.CertificationName = strings.TrimSpace(c.CertificationName)
	c.CertifyingAuthority = strings.TrimSpace(c.CertifyingAuthority)
	c.Description = strings.TrimSpace(c.Description)
}

func (c *Certification) Validate() error {
	return validateRecord(c.TableName(), c)
}

func (c *Certification) String() string {
	return c.CertificationName
}
