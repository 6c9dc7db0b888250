package models

import (
	"strings"
	"time"
)

// PersonalInformation holds the contact details heading a user's CV.
// A user has at most one.
type PersonalInformation struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	UserID            string    `gorm:"size:36;not null;uniqueIndex" json:"user_id"`
	FullName          string    `gorm:"size:255;not null" json:"full_name" validate:"required,notblank,max=255"`
	DateOfBirth       Date      `gorm:"not null" json:"date_of_birth" validate:"required"`
	PhoneNumber       string    `gorm:"size:20;not null" json:"phone_number" validate:"required,notblank,max=20"`
	Address           string    `gorm:"type:text;not null" json:"address" validate:"required,notblank"`
	ProfilePictureURL string    `gorm:"size:200;not null;default:''" json:"profile_picture_url" validate:"omitempty,max=200,web_url"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-" validate:"-"`
}

func (PersonalInformation) TableName() string {
	return "personal_information"
}

func (p *PersonalInformation) RecordID() uint { return p.ID }
func (p *PersonalInformation) SetID(id uint) { p.ID = id }
func (p *PersonalInformation) OwnerID() string { return p.UserID }
func (p *PersonalInformation) SetOwner(userID string) { p.UserID = userID }
func (p *PersonalInformation) SingletonPerUser() {}

// SortKeys puts the newest record first.
func (p *PersonalInformation) SortKeys() []SortKey {
	return []SortKey{{Column: "id", Desc: true}}
}

func (p *PersonalInformation) Normalize() {
	p.FullName = strings.TrimSpace(p.FullName)
	p.PhoneNumber = strings.TrimSpace(p.PhoneNumber)
	p.Address = strings.TrimSpace(p.Address)
	p.ProfilePictureURL = strings.TrimSpace(p.ProfilePictureURL)
}

func (p *PersonalInformation) Validate() error {
	return validateRecord(p.TableName(), p)
}

func (p *PersonalInformation) String() string {
	return p.FullName
}
