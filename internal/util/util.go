package util

import (
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var ErrInvalidInput = errors.New("invalid name or id")

func RecordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// NormalizeName lower-cases and trims a user supplied name or id.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func IsNumericID(input string) bool {
	if input == "" {
		return false
	}
	for _, c := range input {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func ValidateInput(input string) (string, error) {
	n := NormalizeName(input)
	if n == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidInput, input)
	}
	return n, nil
}

func GetPokemonKey(nameOrID string) string {
	return fmt.Sprintf("pokemon:%s", nameOrID)
}

func GetMoveKey(nameOrID string) string {
	return fmt.Sprintf("move:%s", nameOrID)
}

func GetItemKey(nameOrID string) string {
	return fmt.Sprintf("item:%s", nameOrID)
}
