package models

// CartLine is one product's presence in a cart. Quantity is always >= 1;
// removal deletes the line instead of storing zero.
type CartLine struct {
	ID       string  `json:"id"`
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Cart mirrors the upstream cart aggregate. Status is owned by the server
// and treated as opaque here; the client never transitions it directly.
type Cart struct {
	ID            string     `json:"id"`
	Status        string     `json:"status"`
	Items         []CartLine `json:"items"`
	CartTokenHash string     `json:"cartTokenHash"`
}

// CartStateVersion tags persisted cart snapshots. Bump it on any change to
// CartState; loaders discard snapshots carrying a different version.
const CartStateVersion = 1

// CartState is the durable snapshot of a visitor's cart, written to the
// key-value bridge after every store change and rehydrated on boot.
type CartState struct {
	SchemaVersion int        `json:"schemaVersion"`
	CartID        string     `json:"cartId"`
	CartToken     string     `json:"cartToken"`
	Items         []CartLine `json:"items"`
	Status        string     `json:"status"`
}
