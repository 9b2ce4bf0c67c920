// Package util holds small collaborators shared by the query-runner and CLI
// boundary (spec.md §1's "external collaborators"): progress reporting.
// None of it is reachable from the succinct core itself,
// which performs no I/O (spec.md §5).
package util

import (
	"time"

	"github.com/sirupsen/logrus"
)

// ProgressLogger tracks and reports progress of a long-running query phase,
// grounded on pthashgo/internal/util/logger.go's ProgressLogger but
// re-pointed at a logrus.FieldLogger instead of bare log.Printf/fmt.Printf,
// per the structured-logging convention this repository carries at its I/O
// boundary (see google-gvisor's pkg/v2/service.go for the same
// logrus.WithField-style usage this mirrors).
type ProgressLogger struct {
	log            logrus.FieldLogger
	totalEvents    uint64
	label          string
	loggedEvents   uint64
	logStep        uint64
	nextEventToLog uint64
	enabled        bool
	startTime      time.Time
}

// NewProgressLogger creates a progress logger that emits one logrus event
// per ~5% of totalEvents processed (1% once totalEvents is large).
func NewProgressLogger(log logrus.FieldLogger, totalEvents uint64, label string, enable bool) *ProgressLogger {
	pl := &ProgressLogger{
		log:         log,
		totalEvents: totalEvents,
		label:       label,
		enabled:     enable,
		startTime:   time.Now(),
	}

	percFraction := uint64(20)
	if totalEvents >= 100_000_000 {
		percFraction = 100
	}
	pl.logStep = (totalEvents + percFraction - 1) / percFraction
	if pl.logStep == 0 {
		pl.logStep = 1
	}

	if enable {
		pl.nextEventToLog = pl.logStep
	} else {
		pl.nextEventToLog = ^uint64(0)
	}
	return pl
}

// Log records one processed event, emitting a progress line whenever
// another step boundary is crossed.
func (pl *ProgressLogger) Log() {
	if !pl.enabled {
		return
	}
	pl.loggedEvents++
	if pl.loggedEvents >= pl.nextEventToLog {
		pl.emit(false)
		pl.nextEventToLog += pl.logStep
		if pl.nextEventToLog > pl.totalEvents {
			pl.nextEventToLog = pl.totalEvents
		}
	}
}

// Finalize emits the 100% completion line.
func (pl *ProgressLogger) Finalize() {
	if !pl.enabled {
		return
	}
	pl.loggedEvents = pl.totalEvents
	pl.emit(true)
}

func (pl *ProgressLogger) emit(final bool) {
	perc := uint64(0)
	if pl.totalEvents > 0 {
		perc = (100 * pl.loggedEvents) / pl.totalEvents
	}
	entry := pl.log.WithFields(logrus.Fields{
		"stage":   pl.label,
		"percent": perc,
	})
	if final {
		entry.WithField("elapsed", time.Since(pl.startTime)).Info("done")
		return
	}
	entry.Debug("progress")
}
