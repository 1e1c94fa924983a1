package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const intakePath = "/webhook/data-pipeline"

type SendCmd struct {
	url     string
	timeout time.Duration
	client  *http.Client
}

func NewSendCmd(client *http.Client) *cobra.Command {
	sc := &SendCmd{client: client}
	cmd := &cobra.Command{
		Use:   "send <report.json>",
		Short: "Post a report file to a running relay",
		Args:  cobra.ExactArgs(1),
		RunE:  sc.run,
	}

	cmd.Flags().StringVar(&sc.url, "url", "http://localhost:5000", "Base URL of the relay")
	cmd.Flags().DurationVar(&sc.timeout, "timeout", 30*time.Second, "Request timeout")

	return cmd
}

func (sc *SendCmd) run(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), sc.timeout)
	defer cancel()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read report file: %w", err)
	}

	endpoint := strings.TrimRight(sc.url, "/") + intakePath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := sc.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send report: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read relay response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("relay rejected report (%s): %s", resp.Status, strings.TrimSpace(string(body)))
	}

	fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(string(body)))
	return nil
}
