package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin  = "admin"
	RoleCajero = "cajero"
)

// User representa un operador del punto de venta (admin o cajero).
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string // nombre mostrado en recibos como cashier
	Role         string // admin, cajero
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
