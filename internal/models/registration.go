package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentFailed  PaymentStatus = "FAILED"
)

var AllPaymentStatuses = []PaymentStatus{PaymentPending, PaymentPaid, PaymentFailed}

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return true
	}
	return false
}

// Registration is an applicant submitted through the public intake form.
// CourseName is free text, not a reference to Course.
type Registration struct {
	ID            string                      `json:"id" gorm:"primaryKey;size:36"`
	Name          string                      `json:"name" gorm:"not null;size:255;index"`
	Email         *string                     `json:"email,omitempty" gorm:"size:255"`
	PhoneNo       string                      `json:"phoneNo" gorm:"column:phone_no;uniqueIndex:idx_registrations_phone_no;not null;size:20"`
	UserImg       string                      `json:"userImg" gorm:"column:user_img;size:1000"`
	FatherName    string                      `json:"fatherName" gorm:"column:father_name;not null;size:255"`
	MotherName    string                      `json:"motherName" gorm:"column:mother_name;not null;size:255"`
	CourseName    string                      `json:"courseName" gorm:"column:course_name;not null;size:255;index"`
	AadharCardNo  string                      `json:"aadharCardNo" gorm:"column:aadhar_card_no;uniqueIndex:idx_registrations_aadhar_card_no;not null;size:50"`
	AadharFront   string                      `json:"aadharFront" gorm:"column:aadhar_front;size:1000"`
	AadharBack    string                      `json:"aadharBack" gorm:"column:aadhar_back;size:1000"`
	Marksheets    datatypes.JSONSlice[string] `json:"marksheets" gorm:"type:jsonb"`
	Address       string                      `json:"address" gorm:"type:text;not null"`
	PaymentStatus PaymentStatus               `json:"paymentStatus" gorm:"column:payment_status;type:varchar(20);not null;default:PENDING;index"`

	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RecordID identifies the registration in a bulk selection.
func (r Registration) RecordID() string {
	return r.ID
}

func (Registration) TableName() string {
	return "registrations"
}

func (r *Registration) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.PaymentStatus == "" {
		r.PaymentStatus = PaymentPending
	}
	return nil
}

// RegistrationBulkFields maps bulk-editable JSON keys to their columns.
var RegistrationBulkFields = map[string]string{
	"paymentStatus": "payment_status",
	"courseName":    "course_name",
}
