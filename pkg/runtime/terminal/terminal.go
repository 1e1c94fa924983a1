package terminal

import (
	"io"
	"net/http"
	"os"
	"time"

	"github.com/moodvestor/report-relay/pkg/runtime/terminal/commands"
	"github.com/moodvestor/report-relay/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	client   *http.Client
	reporter *export.Reporter
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Output     io.Writer
	HTTPClient *http.Client
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 60 * time.Second}
	}

	cli := &CLI{
		client:   opts.HTTPClient,
		reporter: export.NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	cli.rootCmd.SetOut(opts.Output)
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

// ExecuteArgs runs the CLI with explicit arguments instead of os.Args.
func (cli *CLI) ExecuteArgs(args []string) error {
	cli.rootCmd.SetArgs(args)
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "relay",
		Short:         "Moodvestor report relay tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(commands.NewSendCmd(cli.client))
	cmd.AddCommand(commands.NewReportsCmd(cli.reporter))

	return cmd
}
