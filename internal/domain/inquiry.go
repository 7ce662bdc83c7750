package domain

import (
	"time"

	"gorm.io/gorm"
)

// InquiryStatus tracks how far staff got with an inquiry
type InquiryStatus string

const (
	InquiryStatusNew     InquiryStatus = "new"
	InquiryStatusRead    InquiryStatus = "read"
	InquiryStatusReplied InquiryStatus = "replied"
)

// Valid reports whether s is a known status
func (s InquiryStatus) Valid() bool {
	switch s {
	case InquiryStatusNew, InquiryStatusRead, InquiryStatusReplied:
		return true
	}
	return false
}

// Inquiry is a submitted inquiry form, recorded for staff follow-up
type Inquiry struct {
	ID                 uint          `gorm:"primaryKey" json:"id"`
	FullName           string        `gorm:"not null" json:"full_name"`
	PhoneNumber        string        `gorm:"not null" json:"phone_number"`
	EmailAddress       string        `gorm:"not null;index" json:"email_address"`
	ProjectDescription string        `gorm:"type:text;not null" json:"project_description"`
	Status             InquiryStatus `gorm:"default:'new';index" json:"status"`
	SessionID          string        `gorm:"size:36;index" json:"-"`
	SubmissionID       string        `gorm:"size:36;uniqueIndex" json:"-"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          *time.Time    `gorm:"autoUpdateTime:false" json:"updated_at"`
}

// TableName specifies the table name for Inquiry
func (Inquiry) TableName() string {
	return "inquiries"
}

// BeforeCreate hook
func (i *Inquiry) BeforeCreate(tx *gorm.DB) error {
	if i.CreatedAt.IsZero() {
		i.CreatedAt = time.Now().UTC()
	}
	if i.Status == "" {
		i.Status = InquiryStatusNew
	}
	return nil
}

// BeforeUpdate hook
func (i *Inquiry) BeforeUpdate(tx *gorm.DB) error {
	now := time.Now().UTC()
	i.UpdatedAt = &now
	return nil
}
