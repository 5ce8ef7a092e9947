package mapping

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/eslsoft/lingvo/internal/entity"
)

// Detail is the body of errors that carry a message only.
type Detail struct {
	Detail string `json:"detail"`
}

// CodedDetail is Detail plus a machine readable exception code.
type CodedDetail struct {
	ExceptionCode string `json:"exception_code"`
	Detail        string `json:"detail"`
}

// AmountLimit is the body of amount_limit_exceeded responses.
type AmountLimit struct {
	ExceptionCode string `json:"exception_code"`
	Detail        string `json:"detail"`
	AmountLimit   int    `json:"amount_limit"`
}

const (
	codeAlreadyExist       = "already_exist"
	codeAmountLimit        = "amount_limit_exceeded"
	codeServiceUnavailable = "service_unavailable"
)

// ToHTTPError maps err onto a status code and a JSON body.
func ToHTTPError(err error) (int, any) {
	var (
		verrs    validation.Errors
		verr     validation.Error
		conflict *entity.ConflictError
		limit    *entity.AmountLimitError
	)
	switch {
	case errors.As(err, &verrs):
		return http.StatusBadRequest, ValidationBody(verrs)
	case errors.As(err, &verr):
		return http.StatusBadRequest, map[string][]string{"non_field_errors": {verr.Error()}}
	case errors.Is(err, entity.ErrInvalidLogin):
		return http.StatusBadRequest, map[string][]string{"non_field_errors": {entity.ErrInvalidLogin.Error()}}
	case errors.Is(err, entity.ErrInvalidArgument):
		return http.StatusBadRequest, Detail{Detail: err.Error()}
	case errors.Is(err, entity.ErrUnauthenticated):
		return http.StatusUnauthorized, Detail{Detail: entity.ErrUnauthenticated.Error()}
	case entity.IsNotFound(err):
		return http.StatusNotFound, Detail{Detail: "Not found."}
	case errors.As(err, &conflict):
		return http.StatusConflict, ConflictBody(conflict)
	case errors.As(err, &limit):
		return http.StatusConflict, AmountLimit{ExceptionCode: codeAmountLimit, Detail: limit.Detail(), AmountLimit: limit.Limit}
	case errors.Is(err, entity.ErrDuplicate), errors.Is(err, entity.ErrUserExists):
		return http.StatusConflict, CodedDetail{ExceptionCode: codeAlreadyExist, Detail: "This object already exists."}
	case errors.Is(err, entity.ErrUnavailable):
		return http.StatusServiceUnavailable, CodedDetail{ExceptionCode: codeServiceUnavailable, Detail: "Service temporarily unavailable, try again later."}
	default:
		return http.StatusInternalServerError, Detail{Detail: "internal server error"}
	}
}

// ValidationBody turns ozzo errors into {field: [messages]}. Nested lists keep
// their index keys, so translations[1].text becomes
// {"translations": {"1": {"text": ["..."]}}}.
func ValidationBody(errs validation.Errors) map[string]any {
	body := make(map[string]any, len(errs))
	for field, err := range errs {
		if err == nil {
			continue
		}
		var nested validation.Errors
		if errors.As(err, &nested) {
			body[field] = ValidationBody(nested)
			continue
		}
		body[field] = []string{err.Error()}
	}
	return body
}
