package events

import (
	"context"
	"encoding/json"

	"github.com/hacknight/server/internal/jobs"
	"github.com/hacknight/server/internal/metrics"
	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"
	"github.com/rs/zerolog"
)

// RiverEmitter queues events as notify jobs. Enqueue failures are logged and
// swallowed: emission is strictly best-effort and must never undo or report
// on the mutation that preceded it.
type RiverEmitter struct {
	client  *river.Client[pgx.Tx]
	channel string
	logger  zerolog.Logger
}

func NewRiverEmitter(client *river.Client[pgx.Tx], channel string, logger zerolog.Logger) *RiverEmitter {
	return &RiverEmitter{
		client:  client,
		channel: channel,
		logger:  logger.With().Str("component", "events").Logger(),
	}
}

func (e *RiverEmitter) Trigger(ctx context.Context, name string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		e.logger.Error().Err(err).Str("event", name).Msg("unmarshalable event payload")
		return
	}

	_, err = e.client.Insert(ctx, jobs.NotifyArgs{
		Event:    name,
		Channels: []string{e.channel},
		Data:     data,
	}, nil)
	if err != nil {
		e.logger.Warn().Err(err).Str("event", name).Msg("event enqueue failed")
		return
	}
	metrics.EventsEmitted.WithLabelValues(name).Inc()
}
