package commands

import (
	"bytes"
	"fmt"

	"github.com/moodvestor/report-relay/pkg/models/domain"
	"github.com/moodvestor/report-relay/pkg/runtime/terminal/export"
	"github.com/moodvestor/report-relay/pkg/store/archive"
	"github.com/spf13/cobra"
)

type ReportsCmd struct {
	dir      string
	limit    int
	reporter *export.Reporter
}

func NewReportsCmd(reporter *export.Reporter) *cobra.Command {
	rc := &ReportsCmd{reporter: reporter}
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Inspect the local report archive",
	}
	cmd.PersistentFlags().StringVar(&rc.dir, "dir", "reports", "Archive directory")

	list := &cobra.Command{
		Use:   "list",
		Short: "List archived reports, newest first",
		Args:  cobra.NoArgs,
		RunE:  rc.list,
	}
	list.Flags().IntVar(&rc.limit, "limit", 10, "Maximum number of reports to list (0 for all)")

	show := &cobra.Command{
		Use:   "show <name>",
		Short: "Print the summary of an archived report",
		Args:  cobra.ExactArgs(1),
		RunE:  rc.show,
	}

	cmd.AddCommand(list, show)
	return cmd
}

func (rc *ReportsCmd) list(cmd *cobra.Command, _ []string) error {
	entries, err := archive.NewLocal(rc.dir).List(cmd.Context(), rc.limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No archived reports found in %s\n", rc.dir)
		return nil
	}
	return rc.reporter.HandleList(entries)
}

func (rc *ReportsCmd) show(cmd *cobra.Command, args []string) error {
	data, err := archive.NewLocal(rc.dir).Open(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}

	report, err := domain.DecodeReport(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", args[0], err)
	}
	return rc.reporter.Handle(report.Digest())
}
