package jobs

import (
	"github.com/riverqueue/river"
	"github.com/rs/zerolog"
)

// NewWorkers registers every worker the server runs.
func NewWorkers(webhookURL string, logger zerolog.Logger) (*river.Workers, error) {
	workers := river.NewWorkers()
	if err := river.AddWorkerSafely(workers, NewNotifyWorker(webhookURL, logger)); err != nil {
		return nil, err
	}
	return workers, nil
}
