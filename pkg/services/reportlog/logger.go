package reportlog

import (
	"context"

	"github.com/moodvestor/report-relay/pkg/models/domain"
	"github.com/rs/zerolog"
)

// Log writes the per-report log lines to the logger carried by ctx.
func Log(ctx context.Context, d domain.Digest) {
	logger := zerolog.Ctx(ctx)

	logger.Info().
		Str("report_id", d.ID).
		Str("report_type", d.Type).
		Str("status", d.Status).
		Msgf("Report %s: %s - %s", d.ID, d.Type, d.Status)

	if d.CriticalIssues > 0 {
		logger.Warn().
			Str("report_id", d.ID).
			Int64("critical_issues", d.CriticalIssues).
			Msgf("CRITICAL: %d critical issues in report %s", d.CriticalIssues, d.ID)
	}

	// DefaultValueRatio refuses a zero denominator.
	if pct, ok := d.DefaultValueRatio(); ok {
		logger.Warn().
			Str("report_id", d.ID).
			Int64("default_values_used", d.DefaultValuesUsed).
			Int64("total_calculated", d.TotalCalculated).
			Str("default_ratio", domain.Percent(pct)).
			Msgf("VIBE SCORE ISSUE: %d/%d scores are default values (%s)",
				d.DefaultValuesUsed, d.TotalCalculated, domain.Percent(pct))
	}
}
