package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeReport(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
		wantID  string
	}{
		{name: "object", body: `{"report_id":"r-1"}`, wantID: "r-1"},
		{name: "object without id", body: `{"status":"success"}`, wantID: Unknown},
		{name: "empty body", body: "", wantErr: ErrEmptyReport},
		{name: "whitespace body", body: " \n\t", wantErr: ErrEmptyReport},
		{name: "null", body: "null", wantErr: ErrEmptyReport},
		{name: "empty object", body: "{}", wantErr: ErrEmptyReport},
		{name: "empty array", body: "[]", wantErr: ErrEmptyReport},
		{name: "array", body: `[1,2]`, wantErr: ErrNotObject},
		{name: "string", body: `"report"`, wantErr: ErrNotObject},
		{name: "malformed", body: `{"report_id":`, wantErr: ErrInvalidJSON},
		{name: "trailing data", body: `{"a":1} {"b":2}`, wantErr: ErrInvalidJSON},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			report, err := DecodeReport(strings.NewReader(tc.body))
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, report)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantID, report.ID())
		})
	}
}

func TestReport_Accessors(t *testing.T) {
	report, err := DecodeReport(strings.NewReader(`{
		"report_id": 42,
		"status": "warning",
		"summary": {
			"critical_issues": 3,
			"total_tickers_processed": 1.0,
			"success_rate": 97.25,
			"data_quality_score": "high"
		},
		"vibe_score_stats": "n/a",
		"recommendations": ["a", 2, "c"]
	}`))
	require.NoError(t, err)

	assert.Equal(t, Unknown, report.ID(), "non-string id falls back")
	assert.Equal(t, "warning", report.String("status", Unknown))
	assert.Equal(t, Unknown, report.String("report_type", Unknown))
	assert.Equal(t, int64(3), report.Int("summary.critical_issues", 0))
	assert.Equal(t, int64(1), report.Int("summary.total_tickers_processed", 0))
	assert.Equal(t, 97.25, report.Float("summary.success_rate", 0))
	assert.Equal(t, float64(0), report.Float("summary.data_quality_score", 0))
	assert.Equal(t, int64(0), report.Int("vibe_score_stats.default_values_used", 0))
	assert.Equal(t, []string{"a", "2", "c"}, report.Strings("recommendations"))
	assert.Nil(t, report.Strings("summary"))

	_, ok := report.Get("summary.missing")
	assert.False(t, ok)
	_, ok = report.Get("status.nested")
	assert.False(t, ok)
}

func TestReport_Digest(t *testing.T) {
	report := Report{}
	d := report.Digest()

	assert.Equal(t, Digest{ID: Unknown, Status: Unknown, Type: Unknown}, d)
}

func TestDigest_Fields(t *testing.T) {
	d := Digest{
		ID:                "r-1",
		Status:            "success",
		Type:              "daily",
		CriticalIssues:    1,
		TickersProcessed:  120,
		SuccessRate:       99.04,
		DataQualityScore:  87.55,
		DefaultValuesUsed: 0,
	}

	fields := d.Fields()
	require.Len(t, fields, 6)
	assert.Equal(t, Field{Name: "Status", Value: "SUCCESS", Short: true}, fields[0])
	assert.Equal(t, "daily", fields[1].Value)
	assert.Equal(t, "120", fields[2].Value)
	assert.Equal(t, "99.0%", fields[3].Value)
	assert.Equal(t, "1", fields[4].Value)
	assert.Equal(t, "Data Quality", fields[5].Name)

	d.DefaultValuesUsed = 5
	d.TotalCalculated = 20
	fields = d.Fields()
	require.Len(t, fields, 7)
	assert.Equal(t, Field{Name: "Vibe Score Issue", Value: "5/20 default values", Short: true}, fields[6])
}

func TestDigest_DefaultValueRatio(t *testing.T) {
	pct, ok := Digest{DefaultValuesUsed: 5, TotalCalculated: 20}.DefaultValueRatio()
	assert.True(t, ok)
	assert.Equal(t, 25.0, pct)

	_, ok = Digest{DefaultValuesUsed: 5, TotalCalculated: 0}.DefaultValueRatio()
	assert.False(t, ok)

	_, ok = Digest{DefaultValuesUsed: 0, TotalCalculated: 20}.DefaultValueRatio()
	assert.False(t, ok)
}

func TestDigest_TopRecommendations(t *testing.T) {
	d := Digest{Recommendations: []string{"one", "two", "three", "four"}}
	assert.Equal(t, []string{"one", "two", "three"}, d.TopRecommendations(3))

	d.Recommendations = []string{"one"}
	assert.Equal(t, []string{"one"}, d.TopRecommendations(3))
}
