package models

import "time"

type Address struct {
	ID     string  `json:"id"`
	Line1  string  `json:"line1"`
	Line2  *string `json:"line2"`
	City   string  `json:"city"`
	Region string  `json:"region"`
	Zip    string  `json:"zip"`
}

type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Addresses []Address `json:"addresses"`
	Comment   string    `json:"comment"`
}

// Order as returned by the upstream admin listing. Status values are owned
// by the upstream service.
type Order struct {
	ID            string     `json:"id"`
	Customer      Customer   `json:"customer"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	Items         []CartLine `json:"items"`
	CartTokenHash string     `json:"cartTokenHash"`
}

// CheckoutForm is the payload for POST /api/order/checkout. Field names
// follow the upstream contract exactly.
type CheckoutForm struct {
	FullName        string `json:"fullName"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	DeliveryAddress string `json:"deliveryAddress"`
	City            string `json:"city"`
	Region          string `json:"region"`
	Zip             string `json:"zip"`
	Comment         string `json:"comment,omitempty"`
	PdnConsent      bool   `json:"pdnConsent"`
}

// OrderConfirmation is what checkout echoes back. The upstream contract
// only guarantees an order reference; the rest is passed through as-is.
type OrderConfirmation struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status,omitempty"`
}
