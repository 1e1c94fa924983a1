package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Unknown is the fallback for every string field a report leaves out.
const Unknown = "unknown"

const (
	StatusSuccess = "success"
	StatusWarning = "warning"
	StatusError   = "error"
)

var (
	ErrEmptyReport = errors.New("empty report")
	ErrNotObject   = errors.New("report must be a JSON object")
	ErrInvalidJSON = errors.New("invalid JSON")
)

// Report is an inbound data pipeline report. It is kept as an untyped document so
// unknown fields survive archiving; the fields the relay cares about are read through
// the accessors below, each of which falls back to a default on a missing or
// mistyped value.
type Report map[string]interface{}

// DecodeReport reads a report from r. Numbers are kept as json.Number so that an
// archived copy carries the exact literals that were received.
func DecodeReport(r io.Reader) (Report, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read report body: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyReport
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected data after top-level value", ErrInvalidJSON)
	}

	switch v := doc.(type) {
	case nil:
		return nil, ErrEmptyReport
	case map[string]interface{}:
		if len(v) == 0 {
			return nil, ErrEmptyReport
		}
		return Report(v), nil
	case []interface{}:
		if len(v) == 0 {
			return nil, ErrEmptyReport
		}
	}
	return nil, ErrNotObject
}

// Get walks a dotted path such as "summary.critical_issues".
func (r Report) Get(path string) (interface{}, bool) {
	var cur interface{} = map[string]interface{}(r)
	for _, key := range strings.Split(path, ".") {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func (r Report) String(path, def string) string {
	v, ok := r.Get(path)
	if !ok {
		return def
	}
	s, ok := v.(string)
	if !ok {
		return def
	}
	return s
}

func (r Report) Int(path string, def int64) int64 {
	v, ok := r.Get(path)
	if !ok {
		return def
	}
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}
		if f, err := n.Float64(); err == nil {
			return int64(f)
		}
	case float64:
		return int64(n)
	case int:
		return int64(n)
	case int64:
		return n
	}
	return def
}

func (r Report) Float(path string, def float64) float64 {
	v, ok := r.Get(path)
	if !ok {
		return def
	}
	switch n := v.(type) {
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f
		}
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return def
}

// Strings returns the list at path with every entry rendered as text. Anything that
// is not a list yields nil.
func (r Report) Strings(path string) []string {
	v, ok := r.Get(path)
	if !ok {
		return nil
	}
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
			continue
		}
		out = append(out, fmt.Sprint(item))
	}
	return out
}

func (r Report) ID() string {
	return r.String("report_id", Unknown)
}

// Digest is the typed view of the report fields used for logging and notifications.
type Digest struct {
	ID                string
	Status            string
	Type              string
	CriticalIssues    int64
	TickersProcessed  int64
	SuccessRate       float64
	DataQualityScore  float64
	DefaultValuesUsed int64
	TotalCalculated   int64
	Recommendations   []string
}

func (r Report) Digest() Digest {
	return Digest{
		ID:                r.ID(),
		Status:            r.String("status", Unknown),
		Type:              r.String("report_type", Unknown),
		CriticalIssues:    r.Int("summary.critical_issues", 0),
		TickersProcessed:  r.Int("summary.total_tickers_processed", 0),
		SuccessRate:       r.Float("summary.success_rate", 0),
		DataQualityScore:  r.Float("summary.data_quality_score", 0),
		DefaultValuesUsed: r.Int("vibe_score_stats.default_values_used", 0),
		TotalCalculated:   r.Int("vibe_score_stats.total_calculated", 0),
		Recommendations:   r.Strings("recommendations"),
	}
}
