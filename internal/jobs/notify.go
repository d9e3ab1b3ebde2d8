package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/riverqueue/river"
	"github.com/rs/zerolog"
)

// NotifyArgs is one domain event awaiting webhook delivery.
type NotifyArgs struct {
	Event    string          `json:"event"`
	Channels []string        `json:"channels"`
	Data     json.RawMessage `json:"data"`
}

func (NotifyArgs) Kind() string { return JobKindNotify }

func (NotifyArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{MaxAttempts: NotifyMaxAttempts}
}

// notifyEnvelope matches the Pusher REST event shape subscribers expect.
type notifyEnvelope struct {
	Name     string   `json:"name"`
	Channels []string `json:"channels"`
	Data     string   `json:"data"`
}

// NotifyWorker POSTs events to the configured webhook. Failures surface to
// River, which owns retries; nothing here reaches the mutation's caller.
type NotifyWorker struct {
	river.WorkerDefaults[NotifyArgs]

	webhookURL string
	httpClient *http.Client
	logger     zerolog.Logger
}

func NewNotifyWorker(webhookURL string, logger zerolog.Logger) *NotifyWorker {
	return &NotifyWorker{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger.With().Str("component", "notify").Logger(),
	}
}

func (w *NotifyWorker) Work(ctx context.Context, job *river.Job[NotifyArgs]) error {
	if w.webhookURL == "" {
		w.logger.Debug().Str("event", job.Args.Event).Msg("no webhook configured, dropping event")
		return nil
	}

	envelope := notifyEnvelope{
		Name:     job.Args.Event,
		Channels: job.Args.Channels,
		Data:     string(job.Args.Data),
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("deliver %q: %w", job.Args.Event, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("deliver %q: status %d", job.Args.Event, resp.StatusCode)
	}

	w.logger.Debug().Str("event", job.Args.Event).Msg("delivered")
	return nil
}
