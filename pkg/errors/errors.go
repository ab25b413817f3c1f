// Package errors defines the typed error taxonomy shared by all service
// boundaries. Every failure a service raises carries an enumerated code from
// its own domain, a message rendered from a per-code template, and an
// optional structured details map.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrorCode is an enumerated failure code within one error domain.
// Codes are declared as typed constants, never free-form strings.
type ErrorCode string

// Domain identifies the enumeration an error code belongs to, so callers
// can handle one domain's codes exhaustively.
type Domain string

// ServiceError is a typed service-level error. It carries the specific code,
// the domain the code was declared in, the formatted message, and any
// structured details supplied at raise time.
type ServiceError struct {
	Domain  Domain                 `json:"domain"`
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Domain, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Domain, e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// WithCause attaches an underlying error.
func (e *ServiceError) WithCause(cause error) *ServiceError {
	e.Cause = cause
	return e
}

// StatusCode maps the error code to an HTTP status by substring, defaulting
// to 500 for anything unrecognized. The mapping is pure and total.
func (e *ServiceError) StatusCode() int {
	return StatusForCode(e.Code)
}

// StatusForCode maps any code string to exactly one HTTP status.
func StatusForCode(code ErrorCode) int {
	c := strings.ToUpper(string(code))
	switch {
	case strings.Contains(c, "NOT_FOUND"):
		return http.StatusNotFound
	case strings.Contains(c, "CONFLICT"), strings.Contains(c, "ALREADY_EXISTS"):
		return http.StatusConflict
	case strings.Contains(c, "VALIDATION"):
		return http.StatusBadRequest
	case strings.Contains(c, "UNAUTHORIZED"):
		return http.StatusUnauthorized
	case strings.Contains(c, "FORBIDDEN"):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Catalog binds one error domain's codes to their message templates.
// Templates use {placeholder} names filled from the details map; a missing
// placeholder or template never fails formatting.
type Catalog struct {
	domain    Domain
	templates map[ErrorCode]string
}

// NewCatalog creates a catalog for one error domain.
func NewCatalog(domain Domain, templates map[ErrorCode]string) *Catalog {
	return &Catalog{domain: domain, templates: templates}
}

// New raises a ServiceError for a code declared in this catalog.
func (c *Catalog) New(code ErrorCode, details map[string]interface{}) *ServiceError {
	return &ServiceError{
		Domain:  c.domain,
		Code:    code,
		Message: c.format(code, details),
		Details: details,
	}
}

func (c *Catalog) format(code ErrorCode, details map[string]interface{}) string {
	template, ok := c.templates[code]
	if !ok {
		return fmt.Sprintf("error occurred: %s", code)
	}
	if len(details) == 0 {
		return template
	}
	message := template
	for key, value := range details {
		message = strings.ReplaceAll(message, "{"+key+"}", fmt.Sprintf("%v", value))
	}
	return message
}

// AsServiceError returns the ServiceError in err's chain, or nil.
func AsServiceError(err error) *ServiceError {
	var se *ServiceError
	if errors.As(err, &se) {
		return se
	}
	return nil
}

// IsCode reports whether err is a ServiceError with the given code.
func IsCode(err error, code ErrorCode) bool {
	se := AsServiceError(err)
	return se != nil && se.Code == code
}

// Timestamp returns the current UTC time formatted for error responses.
func Timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
