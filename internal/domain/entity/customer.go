package entity

import "time"

// Customer representa un cliente registrado (las ventas pueden ser anónimas).
type Customer struct {
	ID        string
	Code      string
	Name      string
	Email     string
	Phone     string
	Address   string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PaymentMethod representa un método de pago aceptado en ventas.
type PaymentMethod struct {
	ID        string
	Code      string // cash/card/transfer
	Name      string
	IsActive  bool
	CreatedAt time.Time
}
