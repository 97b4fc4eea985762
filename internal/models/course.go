package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourseStatus string

const (
	CourseOngoing   CourseStatus = "Ongoing"
	CourseUpcoming  CourseStatus = "Upcoming"
	CourseCompleted CourseStatus = "Completed"
)

func (s CourseStatus) IsValid() bool {
	switch s {
	case CourseOngoing, CourseUpcoming, CourseCompleted:
		return true
	}
	return false
}

type Course struct {
	ID               string       `json:"id" gorm:"primaryKey;size:36"`
	Title            string       `json:"title" gorm:"not null;size:255;index"`
	TotalFee         string       `json:"totalFee" gorm:"column:total_fee;size:100"`
	Duration         string       `json:"duration" gorm:"size:100"`
	ApprovedBy       string       `json:"approvedBy" gorm:"column:approved_by;size:255"`
	Category         string       `json:"category" gorm:"size:100;index"`
	ShortDescription string       `json:"shortDescription" gorm:"column:short_description;type:text"`
	FullDescription  string       `json:"fullDescription" gorm:"column:full_description;type:text"`
	Status           CourseStatus `json:"status" gorm:"type:varchar(20);not null;default:Ongoing;index"`
	Image            string       `json:"image" gorm:"size:1000"`

	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RecordID identifies the course in a bulk selection.
func (c Course) RecordID() string {
	return c.ID
}

func (Course) TableName() string {
	return "courses"
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CourseBulkFields maps bulk-editable JSON keys to their columns.
var CourseBulkFields = map[string]string{
	"totalFee": "total_fee",
	"duration": "duration",
	"status":   "status",
	"category": "category",
}
