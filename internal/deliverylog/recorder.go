package deliverylog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Recorder appends delivery outcomes to a Store. It never returns an error
// to the caller: a failed log write is reported to the diagnostic logger
// and must not abort or alter the delivery flow that produced it.
type Recorder struct {
	store Store
	log   zerolog.Logger
}

// NewRecorder builds a Recorder over store.
func NewRecorder(store Store, log zerolog.Logger) *Recorder {
	return &Recorder{store: store, log: log}
}

// Record appends exactly one entry for a delivery attempt and returns it.
// errDetail is recorded verbatim when status is failed and ignored on
// success.
func (r *Recorder) Record(ctx context.Context, recipientID, recipientName string, status Status, errDetail string, payloadBytes int) Entry {
	if status == StatusSuccess {
		errDetail = ""
	}
	e := Entry{
		ID:            uuid.NewString(),
		RecipientID:   recipientID,
		RecipientName: recipientName,
		Status:        status,
		Error:         errDetail,
		PayloadBytes:  payloadBytes,
		CreatedAt:     time.Now().UTC(),
	}
	if err := r.store.Append(ctx, e); err != nil {
		r.log.Error().Err(err).
			Str("recipient_id", recipientID).
			Str("status", string(status)).
			Msg("delivery log write failed")
	}
	return e
}
