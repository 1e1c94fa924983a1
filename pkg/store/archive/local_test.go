package archive

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/moodvestor/report-relay/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleReport = `{
	"report_id": "daily-1",
	"status": "success",
	"summary": {"success_rate": 99.5, "total_tickers_processed": 12345678901234},
	"recommendations": ["<check> feeds & retry"],
	"extra": {"nested": [1, 2.50, null, true]}
}`

func decode(t *testing.T, body string) domain.Report {
	t.Helper()
	report, err := domain.DecodeReport(strings.NewReader(body))
	require.NoError(t, err)
	return report
}

func TestLocal_StoreRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")
	at := time.Date(2025, 6, 13, 14, 5, 9, 0, time.Local)
	archiver := NewLocal(dir)
	archiver.now = func() time.Time { return at }

	path, err := archiver.Store(context.Background(), decode(t, sampleReport))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "daily-1_20250613_140509.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"extra\"", "written with two-space indentation")

	var original, archived interface{}
	require.NoError(t, json.Unmarshal([]byte(sampleReport), &original))
	require.NoError(t, json.Unmarshal(data, &archived))
	assert.Equal(t, original, archived)
}

func TestLocal_SameSecondOverwrites(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2025, 6, 13, 14, 5, 9, 0, time.Local)
	archiver := NewLocal(dir)
	archiver.now = func() time.Time { return at }

	first, err := archiver.Store(context.Background(), decode(t, `{"report_id":"r","n":1}`))
	require.NoError(t, err)
	second, err := archiver.Store(context.Background(), decode(t, `{"report_id":"r","n":2}`))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	data, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"n": 2`)
}

func TestLocal_StoreSanitizesID(t *testing.T) {
	dir := t.TempDir()
	archiver := NewLocal(dir)

	path, err := archiver.Store(context.Background(), decode(t, `{"report_id":"../../etc/passwd"}`))
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "_.._.._etc_passwd_"))
}

func TestLocal_ListNewestFirst(t *testing.T) {
	dir := t.TempDir()
	archiver := NewLocal(dir)
	base := time.Date(2025, 6, 13, 8, 0, 0, 0, time.Local)

	for i, id := range []string{"a", "b", "c"} {
		at := base.Add(time.Duration(i) * time.Minute)
		archiver.now = func() time.Time { return at }
		_, err := archiver.Store(context.Background(), decode(t, `{"report_id":"`+id+`"}`))
		require.NoError(t, err)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	entries, err := archiver.List(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "c", entries[0].ReportID)
	assert.Equal(t, "b", entries[1].ReportID)
	assert.True(t, base.Add(2*time.Minute).Equal(entries[0].ArchivedAt))
	assert.Positive(t, entries[0].Size)

	all, err := archiver.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestLocal_ListMissingDir(t *testing.T) {
	archiver := NewLocal(filepath.Join(t.TempDir(), "absent"))

	entries, err := archiver.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocal_Open(t *testing.T) {
	dir := t.TempDir()
	archiver := NewLocal(dir)

	path, err := archiver.Store(context.Background(), decode(t, sampleReport))
	require.NoError(t, err)

	data, err := archiver.Open(context.Background(), filepath.Base(path))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"daily-1"`)

	_, err = archiver.Open(context.Background(), "missing_20250101_000000.json")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = archiver.Open(context.Background(), "../secret_20250101_000000.json")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestParseObjectName(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.Local)

	id, parsed, ok := ParseObjectName(ObjectName("weekly_summary", at))
	require.True(t, ok)
	assert.Equal(t, "weekly_summary", id)
	assert.True(t, at.Equal(parsed))

	for _, name := range []string{"x.json", "x_2025.json", "x_20250102-030405.json", "x_20250102_030405.txt"} {
		_, _, ok := ParseObjectName(name)
		assert.False(t, ok, name)
	}
}
