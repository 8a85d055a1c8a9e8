package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Status enumerates order lifecycle states in their canonical casing.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusProcessing Status = "Processing"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
	StatusCancelled  Status = "Cancelled"
)

var ErrInvalidStatus = errors.New("order status is invalid")

// Statuses returns the closed status vocabulary in lifecycle order.
func Statuses() []Status {
	return []Status{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}
}

// IsValid reports membership in the status vocabulary.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

func (s Status) String() string { return string(s) }

// NormalizeStatus maps arbitrary-case input to canonical casing: first rune
// upper-cased, remainder lower-cased. It does not check vocabulary membership.
func NormalizeStatus(raw string) Status {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(raw)
	return Status(string(unicode.ToUpper(first)) + strings.ToLower(raw[size:]))
}

// ParseStatus normalizes raw input and validates it against the vocabulary.
func ParseStatus(raw string) (Status, error) {
	status := NormalizeStatus(raw)
	if !status.IsValid() {
		return "", &InvalidStatusError{Status: string(status)}
	}
	return status, nil
}

// InvalidStatusError carries the rejected value and the accepted vocabulary.
type InvalidStatusError struct {
	Status string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid order status %q, valid statuses are: %s", e.Status, strings.Join(validStatusNames(), ", "))
}

func (e *InvalidStatusError) Unwrap() error { return ErrInvalidStatus }

// Valid returns the accepted vocabulary for callers building error responses.
func (e *InvalidStatusError) Valid() []Status { return Statuses() }

func validStatusNames() []string {
	statuses := Statuses()
	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, string(s))
	}
	return names
}
