package summarizer

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindMissingConfig
	KindInvalidInput
	KindRateLimited
	KindAPI
	KindNetwork
	KindInvalidResponse
)

func (k ErrorKind) String() string {
	switch k {
	case KindMissingConfig:
		return "missing_config"
	case KindInvalidInput:
		return "invalid_input"
	case KindRateLimited:
		return "rate_limited"
	case KindAPI:
		return "api_error"
	case KindNetwork:
		return "network_error"
	case KindInvalidResponse:
		return "invalid_response"
	default:
		return "unknown"
	}
}

// Error is the failure half of every summary operation. HTTPStatus is set
// only for KindAPI.
type Error struct {
	Kind       ErrorKind
	Message    string
	HTTPStatus int
	Err        error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.HTTPStatus != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.HTTPStatus)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func ErrMissingAPIKey() *Error {
	return newError(KindMissingConfig, "API key is not configured", nil)
}

func ErrInvalidInput(message string) *Error {
	return newError(KindInvalidInput, message, nil)
}

func ErrRateLimited() *Error {
	return newError(KindRateLimited, "too many requests", nil)
}

// KindOf reports the kind of err, or KindUnknown when err is not an *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindUnknown
}

// UserMessage renders err for an editor.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return "Er is een onbekende fout opgetreden."
	}

	switch e.Kind {
	case KindMissingConfig:
		return "De samenvattingsdienst is niet beschikbaar: er is geen API-sleutel ingesteld."
	case KindInvalidInput:
		return e.Message
	case KindRateLimited:
		return "Te veel verzoeken. Wacht een minuut en probeer het opnieuw."
	case KindAPI:
		return StatusMessage(e.HTTPStatus)
	case KindNetwork:
		if e.Err != nil {
			return "Verbindingsfout met de AI-dienst: " + e.Err.Error()
		}
		return "Verbindingsfout met de AI-dienst."
	case KindInvalidResponse:
		return "Onverwacht antwoord van de AI-dienst."
	default:
		return "Er is een onbekende fout opgetreden."
	}
}

// StatusMessage maps an upstream HTTP status to the text shown to editors.
func StatusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "Ongeldig verzoek aan de AI-dienst."
	case http.StatusUnauthorized:
		return "Ongeldige API-sleutel."
	case http.StatusForbidden:
		return "Geen toegang tot de AI-dienst met deze API-sleutel."
	case http.StatusNotFound:
		return "Het gekozen model bestaat niet of is niet beschikbaar."
	case http.StatusTooManyRequests:
		return "De AI-dienst ontvangt te veel verzoeken. Probeer het later opnieuw."
	case http.StatusInternalServerError, http.StatusServiceUnavailable:
		return "De AI-dienst is tijdelijk niet beschikbaar."
	default:
		return fmt.Sprintf("Fout bij de AI-dienst (HTTP %d).", status)
	}
}
