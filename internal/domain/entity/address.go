package entity

// Address dirección de facturación o envío tal como la entrega el colaborador
// upstream. El cliente solo lee estos campos; el truncado a las columnas de
// ancho fijo de NAV ocurre en el mapper, no aquí.
type Address struct {
	Company           string // razón social; si está vacía se usa Name
	Name              string // nombre de contacto
	Line1             string
	Line2             string
	Postcode          string
	City              string
	SubdivisionAbbrev string // abreviatura de subdivisión (ej. "IL"); vacía si no aplica
	CountryCode       string // ISO-3166 alpha-2
}
