package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/moodvestor/report-relay/pkg/models/domain"
)

const (
	DefaultTimeout = 10 * time.Second

	footer = "Moodvestor Data Pipeline"
)

var ErrUnexpectedStatus = errors.New("unexpected status code")

// Notifier forwards a report summary to one chat destination.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, d domain.Digest) error
}

func title(d domain.Digest) string {
	return fmt.Sprintf("Data Pipeline Report: %s", d.ID)
}

type poster struct {
	url string
	hc  *http.Client
}

func newPoster(url string, timeout time.Duration) poster {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return poster{url: url, hc: &http.Client{Timeout: timeout}}
}

// post sends payload as JSON. Any non-2xx answer is an error.
func (p poster) post(ctx context.Context, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.hc.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post payload: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}
	return nil
}
