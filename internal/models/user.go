package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string
type Role = UserRole

const (
	RoleAdmin     UserRole = "ADMIN"
	RoleSales     UserRole = "SALES"
	RoleTechnical UserRole = "TECHNICAL"
	RoleHR        UserRole = "HR"
	RoleMedia     UserRole = "MEDIA"
	RoleEmployee  UserRole = "EMPLOYEE"
)

// AllRoles lists every staff role in display order.
var AllRoles = []UserRole{RoleAdmin, RoleSales, RoleTechnical, RoleHR, RoleMedia, RoleEmployee}

func (r UserRole) IsValid() bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Staff is a back-office account (the management table).
type Staff struct {
	ID           string   `json:"id" gorm:"primaryKey;size:36"`
	Name         string   `json:"name" gorm:"uniqueIndex:idx_management_name;not null;size:100"`
	Email        string   `json:"email" gorm:"uniqueIndex:idx_management_email;not null;size:255"`
	PasswordHash string   `json:"-" gorm:"column:password;not null"`
	Role         UserRole `json:"role" gorm:"type:varchar(20);not null;default:EMPLOYEE;index"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Staff) TableName() string {
	return "management"
}

func (s *Staff) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
