package model

import "time"

type Product struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"size:255;not null"`
	Description string `gorm:"type:text"`
	// price in smallest currency unit
	PriceCents   int64  `gorm:"not null"`
	MediaKey     string `gorm:"size:512;index;not null"` // filename or object key
	MimeType     string `gorm:"size:128"`
	ThumbnailKey string `gorm:"size:512"`
	Stock        int    `gorm:"not null"`
	Category     string `gorm:"size:128;index"`
	CreatedAt    time.Time
}

type Order struct {
	ID          uint   `gorm:"primaryKey"`
	Email       string `gorm:"size:255;not null"`
	AmountCents int64  `gorm:"not null"` // sum of item snapshots, frozen at checkout
	Currency    string `gorm:"size:16;not null"`
	// checkout-session reference at the payment provider; empty until the
	// second checkout commit succeeds
	CheckoutSessionID string      `gorm:"size:255;index"`
	Status            OrderStatus `gorm:"size:32;index;not null"`
	UserID            *uint       `gorm:"index"`
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Items []OrderItem `gorm:"foreignKey:OrderID"`
}

// OrderItem is a historical price record, immutable once created.
type OrderItem struct {
	ID             uint  `gorm:"primaryKey"`
	OrderID        uint  `gorm:"index;not null"`
	ProductID      uint  `gorm:"index;not null"`
	Quantity       int   `gorm:"not null"`
	UnitPriceCents int64 `gorm:"not null"`
	CreatedAt      time.Time

	Product Product `gorm:"foreignKey:ProductID"`
}

type User struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	JoinedAt     time.Time `gorm:"autoCreateTime"`
}

// WebhookEvent records provider event ids that have already been processed,
// so redelivered events are acknowledged without side effects.
type WebhookEvent struct {
	EventID     string `gorm:"primaryKey;size:128;not null"`
	EventType   string `gorm:"size:64;index"`
	ProcessedAt time.Time
	CreatedAt   time.Time
}
