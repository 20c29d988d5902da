package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/geosynthix/catalog-backend/pkg/enums"
)

// Quote is a customer quote request across one or more product lines.
type Quote struct {
	ID               uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerName     string            `gorm:"column:customer_name;not null"`
	CustomerEmail    string            `gorm:"column:customer_email;not null"`
	CustomerPhone    string            `gorm:"column:customer_phone;not null"`
	City             string            `gorm:"column:city;not null"`
	SelectedProducts pq.StringArray    `gorm:"column:selected_products;type:text[];not null;default:ARRAY[]::text[]"`
	Message          *string           `gorm:"column:message"`
	Status           enums.QuoteStatus `gorm:"column:status;not null;default:new"`
	Replies          []QuoteReply      `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// QuoteReply is one staff response to a quote request.
type QuoteReply struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	QuoteID   uuid.UUID `gorm:"column:quote_id;type:uuid;not null;index"`
	Message   string    `gorm:"column:message;not null"`
	RepliedAt time.Time `gorm:"column:replied_at;autoCreateTime"`
}
