package domain

import (
	"errors"
	"fmt"
)

// Errores tipados del gateway NAV. Se distinguen con errors.As para que el
// orquestador decida si reintenta (lecturas idempotentes) o escala.

// TransportError respuesta HTTP no exitosa del gateway. Conserva el cuerpo
// crudo porque NAV devuelve el detalle del fallo como texto/XML en el body.
type TransportError struct {
	StatusCode int
	Body       string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("nav: respuesta HTTP %d: %s", e.StatusCode, e.Body)
}

// ParseError el elemento de resultado esperado falta o está malformado.
type ParseError struct {
	Operation string
	Element   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("nav: %s: elemento %q ausente o malformado en la respuesta", e.Operation, e.Element)
}

// AmbiguousResultError una lectura de registro único encontró 0 o varios.
type AmbiguousResultError struct {
	Count    int
	Endpoint string
	Filters  map[string]string
}

func (e *AmbiguousResultError) Error() string {
	return fmt.Sprintf("nav: %d resultados para %s con filtros %v (se esperaba exactamente 1)", e.Count, e.Endpoint, e.Filters)
}

// ValidationError un campo numérico o de fecha malformado en un registro remoto.
type ValidationError struct {
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("nav: campo %s con valor inválido %q", e.Field, e.Value)
}

// IsLookupSafe indica si el error proviene de un fallo que no pudo haber
// creado un documento en NAV (transporte o parseo de una lectura). La decisión
// final de reintento es del orquestador; aquí solo se clasifica el tipo.
func IsLookupSafe(err error) bool {
	var amb *AmbiguousResultError
	var val *ValidationError
	return !errors.As(err, &amb) && !errors.As(err, &val)
}
