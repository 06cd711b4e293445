package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name  string    `gorm:"not null"             json:"name"`
	Icon  string    `json:"icon"`
	Color string    `json:"color"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type Product struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string    `gorm:"not null"             json:"name"`
	Description     string    `gorm:"not null"             json:"description"`
	RichDescription string    `json:"richDescription"`
	Image           string    `json:"image"`
	Images          []string  `gorm:"serializer:json"      json:"images"`
	Brand           string    `json:"brand"`
	Price           float64   `gorm:"not null"             json:"price"`
	// CategoryID is advisory only: checked against the categories table at
	// write time, not enforced by the storage layer.
	CategoryID   uuid.UUID `gorm:"type:uuid;index" json:"-"`
	Category     *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	CountInStock int       `gorm:"not null"        json:"countInStock"`
	Rating       float64   `json:"rating"`
	NumReviews   int       `json:"numReviews"`
	IsFeatured   bool      `gorm:"index"           json:"isFeatured"`
	DateCreated  time.Time `gorm:"autoCreateTime"  json:"dateCreated"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"not null"             json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null"             json:"-"`
	Phone        string    `json:"phone"`
	IsAdmin      bool      `gorm:"default:false"        json:"isAdmin"`
	Street       string    `json:"street"`
	Apartment    string    `json:"apartment"`
	Zip          string    `json:"zip"`
	City         string    `json:"city"`
	Country      string    `json:"country"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// OrderItem is created as part of an order and never standalone. OrderID is
// filled in after the parent order is persisted: the item writes happen
// first, so an aborted order creation can leave detached items behind.
type OrderItem struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID   *uuid.UUID `gorm:"type:uuid;index"      json:"-"`
	Quantity  int        `gorm:"not null"             json:"quantity"`
	ProductID uuid.UUID  `gorm:"type:uuid;not null"   json:"-"`
	Product   *Product   `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

type Order struct {
	ID               uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	OrderItems       []OrderItem `gorm:"foreignKey:OrderID"   json:"orderItems"`
	ShippingAddress1 string      `gorm:"not null"             json:"shippingAddress1"`
	ShippingAddress2 string      `json:"shippingAddress2"`
	City             string      `json:"city"`
	Zip              string      `json:"zip"`
	Country          string      `json:"country"`
	Phone            string      `json:"phone"`
	Status           string      `gorm:"not null;default:Pending" json:"status"`
	// TotalPrice is computed from the products' prices at creation time and
	// never recomputed afterwards.
	TotalPrice  float64   `gorm:"not null"            json:"totalPrice"`
	UserID      uuid.UUID `gorm:"type:uuid;index"     json:"-"`
	User        *User     `gorm:"foreignKey:UserID"   json:"user,omitempty"`
	DateOfOrder time.Time `gorm:"autoCreateTime"      json:"dateOfOrder"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
