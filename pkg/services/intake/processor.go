package intake

import (
	"context"
	"fmt"

	"github.com/moodvestor/report-relay/pkg/models/domain"
	"github.com/moodvestor/report-relay/pkg/services/notify"
	"github.com/moodvestor/report-relay/pkg/services/reportlog"
	"github.com/moodvestor/report-relay/pkg/store/archive"
	"github.com/rs/zerolog"
)

const StepArchive = "archive"

// Outcome is the result of one forwarding or archival step. Err is never returned to
// the caller of Process; it is logged and recorded here.
type Outcome struct {
	Step     string
	Location string
	Err      error
}

type Receipt struct {
	ReportID string
	Outcomes []Outcome
}

func (r Receipt) Failed() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

// Processor handles one accepted report: log, notify each configured destination in
// order, then archive.
type Processor struct {
	notifiers []notify.Notifier
	archiver  archive.Archiver
}

// NewProcessor wires the steps. A nil archiver disables archiving; notifiers should
// only contain configured destinations.
func NewProcessor(archiver archive.Archiver, notifiers ...notify.Notifier) *Processor {
	return &Processor{notifiers: notifiers, archiver: archiver}
}

// Process runs every step to completion or failure. The caller's cancellation is not
// propagated to the steps; each sender's own timeout is the only deadline.
func (p *Processor) Process(ctx context.Context, report domain.Report) Receipt {
	ctx = context.WithoutCancel(ctx)
	logger := zerolog.Ctx(ctx)
	digest := report.Digest()
	receipt := Receipt{ReportID: digest.ID}

	logger.Info().Str("report_id", digest.ID).Msgf("Received data pipeline report: %s", digest.ID)
	reportlog.Log(ctx, digest)

	for _, n := range p.notifiers {
		outcome := runStep(n.Name(), func() (string, error) {
			return "", n.Notify(ctx, digest)
		})
		if outcome.Err != nil {
			logger.Error().Err(outcome.Err).Str("destination", n.Name()).Msgf("Failed to send to %s", n.Name())
		} else {
			logger.Info().Str("destination", n.Name()).Msgf("Report sent to %s successfully", n.Name())
		}
		receipt.Outcomes = append(receipt.Outcomes, outcome)
	}

	if p.archiver != nil {
		outcome := runStep(StepArchive, func() (string, error) {
			return p.archiver.Store(ctx, report)
		})
		if outcome.Err != nil {
			logger.Error().Err(outcome.Err).Msg("Failed to store report")
		} else {
			logger.Info().Str("location", outcome.Location).Msgf("Report stored: %s", outcome.Location)
		}
		receipt.Outcomes = append(receipt.Outcomes, outcome)
	}

	return receipt
}

// runStep turns a panicking step into a failed outcome so later steps still run.
func runStep(name string, fn func() (string, error)) (outcome Outcome) {
	outcome.Step = name
	defer func() {
		if rec := recover(); rec != nil {
			outcome.Err = fmt.Errorf("%s step panicked: %v", name, rec)
		}
	}()
	outcome.Location, outcome.Err = fn()
	return outcome
}
