// Package quotes provides price lookup for stock symbols. Quotes are
// ephemeral: they are never persisted and are only valid as of lookup time.
package quotes

import (
	"context"
	"errors"
)

// ErrNotFound is returned when the provider does not recognize a symbol.
// Malformed symbols surface the same way as unknown ones.
var ErrNotFound = errors.New("quotes: symbol not found")

// Quote is the normalized shape returned by all providers.
// Price is the current price per share in cents.
type Quote struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Price  int64  `json:"price"`
}

// Provider defines the contract for a quote source.
type Provider interface {
	Lookup(ctx context.Context, symbol string) (*Quote, error)
}
