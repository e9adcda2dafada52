// Package deliverylog durably records the outcome of every delivery
// attempt. Entries are append-only and never mutated; pruning is an
// external concern.
package deliverylog

import (
	"context"
	"time"
)

// Status is the outcome of a delivery attempt.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Entry is one delivery attempt. Error is empty when Status is success and
// carries the underlying error text verbatim otherwise.
type Entry struct {
	ID            string    `json:"id"`
	RecipientID   string    `json:"recipient_id"`
	RecipientName string    `json:"recipient_name"`
	Status        Status    `json:"status"`
	Error         string    `json:"error,omitempty"`
	PayloadBytes  int       `json:"payload_bytes"`
	CreatedAt     time.Time `json:"created_at"`
}

// Store persists delivery log entries.
type Store interface {
	Append(ctx context.Context, e Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
	Close() error
}
