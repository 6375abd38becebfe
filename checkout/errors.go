package checkout

import "net/http"

// Machine-stable error kinds returned in the error envelope's code field.
const (
	KindValidation           = "validation_error"
	KindEmptyCart            = "empty_cart"
	KindPaymentDeclined      = "payment_declined"
	KindPaymentUnreachable   = "payment_unreachable"
	KindDuplicateTransaction = "duplicate_transaction"
	KindPersistence          = "persistence_error"
)

// Error is a checkout failure with a stable kind. Everything raised inside
// the transactional scope has already been rolled back by the time one of
// these reaches the handler.
type Error struct {
	Kind    string
	Message string
	Fields  map[string]string // per-field messages, validation only
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindEmptyCart, KindPaymentDeclined:
		return http.StatusBadRequest
	case KindPaymentUnreachable:
		return http.StatusBadGateway
	case KindDuplicateTransaction:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func failf(kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}
