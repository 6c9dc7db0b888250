package models

import (
	"strings"
	"time"
)

type Skill struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     string    `gorm:"size:36;not null;index" json:"user_id"`
	SkillName  string    `gorm:"size:100;not null" json:"skill_name" validate:"required,notblank,max=100"`
	SkillLevel string    `gorm:"size:50;not null" json:"skill_level" validate:"required,notblank,max=50"` // free-form, e.g. "Expert"
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-" validate:"-"`
}

func (Skill) TableName() string {
	return "skill"
}

func (s *Skill) RecordID() uint { return s.ID }
func (s *Skill) SetID(id uint) { s.ID = id }
func (s *Skill) OwnerID() string { return s.UserID }
func (s *Skill) SetOwner(userID string) { s.UserID = userID }

// SortKeys orders skills alphabetically, byte-wise: "Docker" sorts before "docker".
func (s *Skill) SortKeys() []SortKey {
	return []SortKey{{Column: "skill_name", Binary: true}, {Column: "id"}}
}

func (s *Skill) Normalize() {
	s.SkillName = strings.TrimSpace(s.SkillName)
	s.SkillLevel = strings.TrimSpace(s.SkillLevel)
}

func (s *Skill) Validate() error {
	return validateRecord(s.TableName(), s)
}

func (s *Skill) String() string {
	return s.SkillName
}
