// Copyright 2023 Stashbin, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package retention

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"

	"github.com/stashbin/stashbin/store"
)

// Result summarizes one sweep run
type Result struct {
	RunID     string
	Listed    int
	Eligible  int
	Deleted   int
	Failed    int
	DryRun    bool
	Threshold time.Time
}

// Sweeper removes objects older than the retention policy allows.
// Each run is independent and holds no state, so overlapping runs are
// safe: deleting an already-deleted key is a no-op.
type Sweeper struct {
	Store  store.Store
	Policy Policy
	Prefix string
	DryRun bool
	Logger *logrus.Logger

	// Now is replaceable in tests; defaults to time.Now
	Now func() time.Time
}

// Run lists the full store, filters by age, and deletes every eligible
// object in one batch. Per-key deletion failures are reported, not
// fatal; a failed listing or a failed delete call fails the run and is
// retried only by the next scheduled trigger.
func (s *Sweeper) Run(ctx context.Context) (*Result, error) {

	runID := uuid.NewV4().String()

	// Captured once so the threshold is consistent across the batch
	now := s.now()

	policy := s.Policy
	if policy.MaxAge == 0 {
		policy.MaxAge = DefaultMaxAge
	}
	threshold := now.Add(-policy.MaxAge)

	log := s.logger().WithFields(logrus.Fields{
		"run":       runID,
		"threshold": threshold.Format(time.RFC3339),
	})

	result := &Result{RunID: runID, DryRun: s.DryRun, Threshold: threshold}

	objects, err := s.Store.List(ctx, s.Prefix)
	if err != nil {
		log.WithError(err).Error("Listing failed")
		return result, err
	}
	result.Listed = len(objects)
	if len(objects) == 0 {
		log.Info("Store is empty")
		return result, nil
	}

	var eligible []string
	for _, obj := range objects {
		if policy.Eligible(obj, now) {
			eligible = append(eligible, obj.Key)
		}
	}
	result.Eligible = len(eligible)
	if len(eligible) == 0 {
		log.WithField("listed", result.Listed).Info("No objects past retention")
		return result, nil
	}

	if s.DryRun {
		log.WithField("eligible", result.Eligible).Info("Dry run; skipping deletion")
		return result, nil
	}

	log.Infof("Deleting %d objects", len(eligible))

	report, err := s.Store.Delete(ctx, eligible)
	result.Deleted = len(report.Deleted)
	result.Failed = len(report.Failed)
	if err != nil {
		log.WithError(err).Error("Batch deletion failed")
		return result, err
	}

	if len(report.Failed) > 0 {
		var failures error
		for _, f := range report.Failed {
			failures = multierror.Append(failures, fmt.Errorf("%s: %s", f.Key, f.Message))
		}
		log.WithError(failures).Warnf("%d objects could not be deleted", len(report.Failed))
	}

	log.WithFields(logrus.Fields{
		"listed":  result.Listed,
		"deleted": result.Deleted,
		"failed":  result.Failed,
	}).Info("Sweep complete")

	return result, nil
}

func (s *Sweeper) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Sweeper) logger() *logrus.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return logrus.StandardLogger()
}
