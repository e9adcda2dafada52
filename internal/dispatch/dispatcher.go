// Package dispatch submits formatted messages to the messaging platform and
// records the outcome of every attempt. There is no retry: a rejected call
// is terminal for that attempt, and retry policy belongs to the caller.
package dispatch

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/vibeflow/notifier/internal/blockkit"
	"github.com/vibeflow/notifier/internal/deliverylog"
	"github.com/vibeflow/notifier/internal/slackapi"
)

// Dispatcher performs outbound deliveries. All calls pass through a shared
// rate limiter to stay inside the platform's posting guidance.
type Dispatcher struct {
	client     *slackapi.Client
	recorder   *deliverylog.Recorder
	limiter    *rate.Limiter
	webhookURL string
	log        zerolog.Logger
}

// New builds a Dispatcher. webhookURL is the pre-configured incoming
// webhook for publish announcements; ratePerSec bounds outbound calls.
func New(client *slackapi.Client, recorder *deliverylog.Recorder, webhookURL string, ratePerSec float64, log zerolog.Logger) *Dispatcher {
	if ratePerSec <= 0 {
		ratePerSec = 1
	}
	return &Dispatcher{
		client:     client,
		recorder:   recorder,
		limiter:    rate.NewLimiter(rate.Limit(ratePerSec), 1),
		webhookURL: webhookURL,
		log:        log,
	}
}

// Announce delivers a publish notification to the configured channel
// webhook. The attempt is logged either way; the error is returned so the
// producer can decide what to do with it.
func (d *Dispatcher) Announce(ctx context.Context, channel string, msg blockkit.Message) (deliverylog.Entry, error) {
	size := payloadSize(msg)
	if err := d.limiter.Wait(ctx); err != nil {
		entry := d.recorder.Record(ctx, channel, channel, deliverylog.StatusFailed, err.Error(), size)
		return entry, err
	}

	err := d.client.PostWebhook(ctx, d.webhookURL, msg)
	if err != nil {
		d.log.Warn().Err(err).Str("channel", channel).Msg("announce dispatch failed")
		entry := d.recorder.Record(ctx, channel, channel, deliverylog.StatusFailed, err.Error(), size)
		return entry, err
	}
	entry := d.recorder.Record(ctx, channel, channel, deliverylog.StatusSuccess, "", size)
	return entry, nil
}

// Welcome delivers the member welcome as a direct message: open (or
// resolve) the conversation, then post into it. Either step failing aborts
// the sequence and is reported as a single failed attempt.
func (d *Dispatcher) Welcome(ctx context.Context, userID, displayName string, msg blockkit.Message) error {
	size := payloadSize(msg)

	if err := d.limiter.Wait(ctx); err != nil {
		d.recorder.Record(ctx, userID, displayName, deliverylog.StatusFailed, err.Error(), size)
		return err
	}
	conversation, err := d.client.OpenConversation(ctx, userID)
	if err != nil {
		d.log.Warn().Err(err).Str("user", userID).Msg("open conversation failed")
		d.recorder.Record(ctx, userID, displayName, deliverylog.StatusFailed, err.Error(), size)
		return err
	}

	if err := d.limiter.Wait(ctx); err != nil {
		d.recorder.Record(ctx, userID, displayName, deliverylog.StatusFailed, err.Error(), size)
		return err
	}
	if err := d.client.PostMessage(ctx, conversation, msg); err != nil {
		d.log.Warn().Err(err).Str("user", userID).Msg("welcome post failed")
		d.recorder.Record(ctx, userID, displayName, deliverylog.StatusFailed, err.Error(), size)
		return err
	}

	d.recorder.Record(ctx, userID, displayName, deliverylog.StatusSuccess, "", size)
	return nil
}

func payloadSize(msg blockkit.Message) int {
	raw, err := msg.Encode()
	if err != nil {
		return 0
	}
	return len(raw)
}
