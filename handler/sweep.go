package handler

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"

	"github.com/stashbin/stashbin/retention"
)

// Sweep runs the retention sweep when the scheduled event fires
type Sweep struct {
	Sweeper *retention.Sweeper
	Logger  *logrus.Logger
}

// HandleRequest runs one sweep. A listing or deletion failure fails
// the invocation; retrying is left to the scheduler.
func (h *Sweep) HandleRequest(ctx context.Context, event events.CloudWatchEvent) error {

	log := h.logger().WithField("source", event.Source)

	result, err := h.Sweeper.Run(ctx)
	if err != nil {
		log.WithError(err).Error("Sweep failed")
		return err
	}

	log.WithFields(logrus.Fields{
		"run":      result.RunID,
		"listed":   result.Listed,
		"eligible": result.Eligible,
		"deleted":  result.Deleted,
		"failed":   result.Failed,
	}).Info("OK")

	return nil
}

func (h *Sweep) logger() *logrus.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return logrus.StandardLogger()
}
