package terminal

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/moodvestor/report-relay/pkg/models/domain"
	"github.com/moodvestor/report-relay/pkg/store/archive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func archiveReport(t *testing.T, dir, body string) string {
	t.Helper()
	report, err := domain.DecodeReport(strings.NewReader(body))
	require.NoError(t, err)
	path, err := archive.NewLocal(dir).Store(context.Background(), report)
	require.NoError(t, err)
	return filepath.Base(path)
}

func TestCLI_ReportsList(t *testing.T) {
	dir := t.TempDir()
	name := archiveReport(t, dir, `{"report_id":"daily-1"}`)

	var out bytes.Buffer
	cli := NewCLI(Options{Output: &out})

	require.NoError(t, cli.ExecuteArgs([]string{"reports", "list", "--dir", dir}))
	assert.Contains(t, out.String(), name)
	assert.Contains(t, out.String(), "Archived At")
}

func TestCLI_ReportsListEmpty(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "none")

	var out bytes.Buffer
	cli := NewCLI(Options{Output: &out})

	require.NoError(t, cli.ExecuteArgs([]string{"reports", "list", "--dir", dir}))
	assert.Contains(t, out.String(), "No archived reports found")
}

func TestCLI_ReportsShow(t *testing.T) {
	dir := t.TempDir()
	name := archiveReport(t, dir, `{
		"report_id": "daily-2",
		"status": "warning",
		"summary": {"success_rate": 91.27, "total_tickers_processed": 40},
		"vibe_score_stats": {"default_values_used": 5, "total_calculated": 20},
		"recommendations": ["Re-run ingestion"]
	}`)

	var out bytes.Buffer
	cli := NewCLI(Options{Output: &out})

	require.NoError(t, cli.ExecuteArgs([]string{"reports", "show", name, "--dir", dir}))
	text := out.String()
	assert.Contains(t, text, "Data Pipeline Report: daily-2")
	assert.Contains(t, text, "WARNING")
	assert.Contains(t, text, "91.3%")
	assert.Contains(t, text, "5/20 default values")
	assert.Contains(t, text, "- Re-run ingestion")
}

func TestCLI_ReportsShowMissing(t *testing.T) {
	cli := NewCLI(Options{Output: io.Discard})

	err := cli.ExecuteArgs([]string{"reports", "show", "gone_20250101_000000.json", "--dir", t.TempDir()})
	assert.ErrorIs(t, err, archive.ErrNotFound)
}

func TestCLI_Send(t *testing.T) {
	var received string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/webhook/data-pipeline", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		received = string(body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"received","report_id":"daily-3"}`))
	}))
	defer srv.Close()

	file := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"report_id":"daily-3"}`), 0o644))

	var out bytes.Buffer
	cli := NewCLI(Options{Output: &out, HTTPClient: srv.Client()})

	require.NoError(t, cli.ExecuteArgs([]string{"send", file, "--url", srv.URL + "/"}))
	assert.JSONEq(t, `{"report_id":"daily-3"}`, received)
	assert.Contains(t, out.String(), `"report_id":"daily-3"`)
}

func TestCLI_SendRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"No JSON data received"}`))
	}))
	defer srv.Close()

	file := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	cli := NewCLI(Options{Output: io.Discard, HTTPClient: srv.Client()})

	err := cli.ExecuteArgs([]string{"send", file, "--url", srv.URL})
	assert.ErrorContains(t, err, "No JSON data received")
}
