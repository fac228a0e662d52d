package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser   = "user"
	RoleClient = "client"
	RoleAdmin  = "admin"
)

const (
	ProductTypePlugin = "plugin"
	ProductTypeMap    = "map"
)

const (
	PaymentStatusCompleted = "completed"

	PaymentMethodPayPal     = "paypal"
	PaymentMethodGooglePay  = "googlepay"
	PaymentMethodAdminAdded = "admin_added"
)

type User struct {
	ID           uuid.UUID `gorm:"primaryKey"       json:"id"`
	Email        string    `gorm:"unique;not null"  json:"email"`
	PasswordHash string    `gorm:"not null"         json:"-"`
	Role         string    `gorm:"not null"         json:"role"`
	Cagnotte     float64   `gorm:"default:0"        json:"cagnotte"`
	CreatedAt    time.Time `json:"created"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type Product struct {
	ID          uuid.UUID `gorm:"primaryKey"      json:"id"`
	Name        string    `gorm:"not null"        json:"name"`
	Type        string    `gorm:"not null;index"  json:"type"`
	Creator     string    `gorm:"not null"        json:"creator"`
	Price       float64   `gorm:"not null"        json:"price"`
	Description string    `json:"description"`
	DemoLink    string    `json:"demoLink"`
	Featured    bool      `gorm:"index"           json:"featured"`
	DownloadURL string    `json:"download_url"`
	PluginFile  string    `json:"pluginFile"`
	MapFile     string    `json:"mapFile"`
	ImageFile   string    `json:"imageFile"`
	CreatedAt   time.Time `json:"created"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// One row per (user, product); the composite unique index is what turns a
// concurrent duplicate add into a constraint conflict instead of a double
// insert.
type CartItem struct {
	ID          uuid.UUID `gorm:"primaryKey"                             json:"id"`
	UserID      uuid.UUID `gorm:"uniqueIndex:idx_user_product;not null"  json:"userId"`
	ProductID   uuid.UUID `gorm:"uniqueIndex:idx_user_product;not null"  json:"productId"`
	ProductName string    `gorm:"not null"                               json:"productName"`
	Price       float64   `gorm:"not null"                               json:"price"`
	AddedDate   time.Time `gorm:"not null"                               json:"addedDate"`
	CreatedAt   time.Time `json:"created"`
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (CartItem) TableName() string {
	return "cart_items"
}

type Order struct {
	ID            uuid.UUID `gorm:"primaryKey"      json:"id"`
	UserID        uuid.UUID `gorm:"index;not null"  json:"userId"`
	ProductID     uuid.UUID `gorm:"not null"        json:"productId"`
	ProductName   string    `gorm:"not null"        json:"productName"`
	Price         float64   `gorm:"not null"        json:"price"`
	PaymentStatus string    `gorm:"not null;index"  json:"paymentStatus"`
	PaymentMethod string    `gorm:"not null"        json:"paymentMethod"`
	PurchaseDate  time.Time `gorm:"not null"        json:"purchaseDate"`
	CreatedAt     time.Time `json:"created"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

type Download struct {
	ID           uuid.UUID `gorm:"primaryKey"      json:"id"`
	UserID       uuid.UUID `gorm:"index;not null"  json:"userId"`
	ProductID    uuid.UUID `gorm:"not null"        json:"productId"`
	ProductName  string    `gorm:"not null"        json:"productName"`
	DownloadDate time.Time `gorm:"not null"        json:"downloadDate"`
	FileURL      string    `json:"fileUrl"`
	CreatedAt    time.Time `json:"created"`
}

func (d *Download) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"       json:"id"`
	Token     string    `gorm:"unique;not null"  json:"token"`
	UserID    uuid.UUID `gorm:"index;not null"   json:"user_id"`
	Role      string    `json:"role"`
	ExpiresAt int64     `gorm:"not null"         json:"expires_at"`
	Revoked   bool      `gorm:"default:false"    json:"revoked"`
}
