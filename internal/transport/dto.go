package transport

import "github.com/google/uuid"

type CategoryRequest struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// ProductForm is bound from the multipart form fields of product create and
// update requests. The image file itself travels separately.
type ProductForm struct {
	Name            string  `form:"name"`
	Description     string  `form:"description"`
	RichDescription string  `form:"richDescription"`
	Brand           string  `form:"brand"`
	Price           float64 `form:"price"`
	Category        string  `form:"category"`
	CountInStock    int     `form:"countInStock"`
	Rating          float64 `form:"rating"`
	NumReviews      int     `form:"numReviews"`
	IsFeatured      bool    `form:"isFeatured"`
}

type RegisterRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
	IsAdmin   bool   `json:"isAdmin"`
	Street    string `json:"street"`
	Apartment string `json:"apartment"`
	Zip       string `json:"zip"`
	City      string `json:"city"`
	Country   string `json:"country"`
}

// UpdateUserRequest leaves the password optional: an absent password keeps
// the stored hash.
type UpdateUserRequest struct {
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Password  *string `json:"password"`
	Phone     string  `json:"phone"`
	IsAdmin   bool    `json:"isAdmin"`
	Street    string  `json:"street"`
	Apartment string  `json:"apartment"`
	Zip       string  `json:"zip"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  string `json:"user"`
	Token string `json:"token"`
}

type OrderItemRequest struct {
	Product  uuid.UUID `json:"product"`
	Quantity int       `json:"quantity"`
}

type CreateOrderRequest struct {
	OrderItems       []OrderItemRequest `json:"orderItems"`
	ShippingAddress1 string             `json:"shippingAddress1"`
	ShippingAddress2 string             `json:"shippingAddress2"`
	City             string             `json:"city"`
	Zip              string             `json:"zip"`
	Country          string             `json:"country"`
	Phone            string             `json:"phone"`
	Status           string             `json:"status"`
	User             uuid.UUID          `json:"user"`
}

type UpdateOrderRequest struct {
	Status string `json:"status"`
}

type CheckoutItem struct {
	Product  uuid.UUID `json:"product"`
	Quantity int       `json:"quantity"`
}

type CheckoutSessionResponse struct {
	ID string `json:"id"`
}

// Envelope is the {success, message} response of destructive operations.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
