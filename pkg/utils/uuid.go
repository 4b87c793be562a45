package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewID generates a new opaque record identifier
func NewID() string {
	return uuid.NewString()
}

// ShortInvoiceNo returns the human-facing invoice number: the first 8
// characters of the id, upper-cased
func ShortInvoiceNo(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return strings.ToUpper(id)
}
