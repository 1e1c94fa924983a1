package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/moodvestor/report-relay/pkg/models/domain"
)

const (
	timeLayout = "20060102_150405"
	extension  = ".json"
)

var ErrNotFound = errors.New("archived report not found")

// Entry describes one archived report.
type Entry struct {
	Name       string
	ReportID   string
	ArchivedAt time.Time
	Size       int64
}

// Archiver persists raw reports. Names are "<report id>_<YYYYMMDD_HHMMSS>.json", so
// two reports with the same id archived within the same second share a name and the
// later one wins.
type Archiver interface {
	Store(ctx context.Context, report domain.Report) (string, error)
	List(ctx context.Context, limit int) ([]Entry, error)
	Open(ctx context.Context, name string) ([]byte, error)
}

// ObjectName builds the archive name for a report id at the given time.
func ObjectName(reportID string, at time.Time) string {
	return sanitize(reportID) + "_" + at.Format(timeLayout) + extension
}

// ParseObjectName splits an archive name back into report id and timestamp.
func ParseObjectName(name string) (string, time.Time, bool) {
	base, ok := strings.CutSuffix(name, extension)
	if !ok || len(base) < len(timeLayout)+2 {
		return "", time.Time{}, false
	}
	stamp := base[len(base)-len(timeLayout):]
	if base[len(base)-len(timeLayout)-1] != '_' {
		return "", time.Time{}, false
	}
	at, err := time.ParseInLocation(timeLayout, stamp, time.Local)
	if err != nil {
		return "", time.Time{}, false
	}
	return base[:len(base)-len(timeLayout)-1], at, true
}

// ValidName reports whether name can be a stored archive name, rejecting anything
// that would escape the archive root.
func ValidName(name string) bool {
	if strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return false
	}
	_, _, ok := ParseObjectName(name)
	return ok
}

// sanitize keeps report ids from introducing path separators.
func sanitize(id string) string {
	id = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0:
			return '_'
		}
		return r
	}, id)
	if id == "" || strings.HasPrefix(id, ".") {
		id = "_" + id
	}
	return id
}

func encode(report domain.Report) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return buf.Bytes(), nil
}

// newest sorts entries newest first and applies limit when it is positive.
func newest(entries []Entry, limit int) []Entry {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ArchivedAt.Equal(entries[j].ArchivedAt) {
			return entries[i].Name > entries[j].Name
		}
		return entries[i].ArchivedAt.After(entries[j].ArchivedAt)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
