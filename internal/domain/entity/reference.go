package entity

import "time"

// Registros de solo lectura devueltos por el gateway. Nunca se crean desde
// este cliente.

// Transaction movimiento de inventario del histórico de NAV.
type Transaction struct {
	DocumentNumber         string
	EntryNumber            int
	Date                   time.Time
	SKU                    string
	Type                   string // sale, purchase, transfer, ... (en minúsculas)
	Quantity               int
	ExternalDocumentNumber string
}

// Item artículo del maestro de NAV.
type Item struct {
	SKU  string
	Name string
}

// Customer cliente del maestro de NAV.
type Customer struct {
	No         string
	Department string
}
