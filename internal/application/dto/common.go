package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// EventResponse resultado del procesamiento de un evento.
type EventResponse struct {
	Status           string `json:"status"` // created | skipped | uploaded
	CreditMemoNumber string `json:"credit_memo_number,omitempty"`
}
