package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/geosynthix/catalog-backend/pkg/enums"
)

// Inquiry is a customer contact submission.
type Inquiry struct {
	ID            uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerName  string               `gorm:"column:customer_name;not null"`
	CustomerEmail string               `gorm:"column:customer_email;not null"`
	CustomerPhone string               `gorm:"column:customer_phone;not null"`
	CompanyName   *string              `gorm:"column:company_name"`
	City          string               `gorm:"column:city;not null"`
	Purpose       enums.InquiryPurpose `gorm:"column:purpose;not null"`
	Source        *enums.InquirySource `gorm:"column:source"`
	Message       string               `gorm:"column:message;not null"`
	Consent       bool                 `gorm:"column:consent;not null;default:false"`
	ProductID     *uuid.UUID           `gorm:"column:product_id;type:uuid"`
	Product       *Product             `gorm:"foreignKey:ProductID"`
	Status        enums.InquiryStatus  `gorm:"column:status;not null;default:new"`
	Replies       []InquiryReply       `gorm:"foreignKey:InquiryID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// InquiryReply is one staff response to an inquiry.
type InquiryReply struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	InquiryID uuid.UUID `gorm:"column:inquiry_id;type:uuid;not null;index"`
	Message   string    `gorm:"column:message;not null"`
	RepliedAt time.Time `gorm:"column:replied_at;autoCreateTime"`
}
