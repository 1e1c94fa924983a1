package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Field is one labelled value of a report summary, shared by the chat formatters and
// the terminal reporter.
type Field struct {
	Name  string
	Value string
	Short bool
}

// Fields returns the summary fields in display order. The vibe score field is only
// present when default values were used.
func (d Digest) Fields() []Field {
	fields := []Field{
		{Name: "Status", Value: strings.ToUpper(d.Status), Short: true},
		{Name: "Type", Value: d.Type, Short: true},
		{Name: "Tickers Processed", Value: strconv.FormatInt(d.TickersProcessed, 10), Short: true},
		{Name: "Success Rate", Value: Percent(d.SuccessRate), Short: true},
		{Name: "Critical Issues", Value: strconv.FormatInt(d.CriticalIssues, 10), Short: true},
		{Name: "Data Quality", Value: Percent(d.DataQualityScore), Short: true},
	}
	if d.DefaultValuesUsed > 0 {
		fields = append(fields, Field{
			Name:  "Vibe Score Issue",
			Value: fmt.Sprintf("%d/%d default values", d.DefaultValuesUsed, d.TotalCalculated),
			Short: true,
		})
	}
	return fields
}

// TopRecommendations returns at most n recommendations in their original order.
func (d Digest) TopRecommendations(n int) []string {
	if len(d.Recommendations) <= n {
		return d.Recommendations
	}
	return d.Recommendations[:n]
}

// DefaultValueRatio reports the share of vibe scores that fell back to a default, in
// percent. ok is false when nothing was calculated or no defaults were used.
func (d Digest) DefaultValueRatio() (pct float64, ok bool) {
	if d.DefaultValuesUsed <= 0 || d.TotalCalculated <= 0 {
		return 0, false
	}
	return float64(d.DefaultValuesUsed) / float64(d.TotalCalculated) * 100, true
}

func Percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}
