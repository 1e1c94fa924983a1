package archive

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/moodvestor/report-relay/pkg/models/domain"
	"github.com/rs/zerolog"
)

type Local struct {
	dir string
	now func() time.Time
}

func NewLocal(dir string) *Local {
	return &Local{dir: dir, now: time.Now}
}

func (l *Local) Dir() string {
	return l.dir
}

func (l *Local) Store(ctx context.Context, report domain.Report) (string, error) {
	data, err := encode(report)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	path := filepath.Join(l.dir, ObjectName(report.ID(), l.now()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Int("bytes", len(data)).Msg("report archived")
	return path, nil
}

func (l *Local) List(ctx context.Context, limit int) ([]Entry, error) {
	dirEntries, err := os.ReadDir(l.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read archive directory: %w", err)
	}

	logger := zerolog.Ctx(ctx)
	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		id, at, ok := ParseObjectName(de.Name())
		if !ok {
			continue
		}
		info, err := de.Info()
		if err != nil {
			logger.Warn().Err(err).Str("name", de.Name()).Msg("skipping unreadable archive entry")
			continue
		}
		entries = append(entries, Entry{
			Name:       de.Name(),
			ReportID:   id,
			ArchivedAt: at,
			Size:       info.Size(),
		})
	}
	return newest(entries, limit), nil
}

func (l *Local) Open(_ context.Context, name string) ([]byte, error) {
	if !ValidName(name) {
		return nil, ErrNotFound
	}
	data, err := os.ReadFile(filepath.Join(l.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read archived report: %w", err)
	}
	return data, nil
}
