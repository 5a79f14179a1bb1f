package httperr

import "errors"

// Kind classifies a business rejection. Every kind is recoverable at
// the request boundary; none is fatal to the process.
type Kind string

const (
	KindNotFound    Kind = "not_found"
	KindForbidden   Kind = "forbidden"
	KindInvalid     Kind = "invalid_input"
	KindConflict    Kind = "conflict"
	KindUnavailable Kind = "unavailable"
)

type BusinessError struct {
	Kind Kind
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrNotFound(code string) error {
	return BusinessError{Kind: KindNotFound, Code: code}
}

func ErrForbidden(code string) error {
	return BusinessError{Kind: KindForbidden, Code: code}
}

func ErrInvalid(code string) error {
	return BusinessError{Kind: KindInvalid, Code: code}
}

func ErrConflict(code string) error {
	return BusinessError{Kind: KindConflict, Code: code}
}

func ErrUnavailable(code string) error {
	return BusinessError{Kind: KindUnavailable, Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func KindOf(err error) (Kind, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind, true
	}
	return "", false
}
