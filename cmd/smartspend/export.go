package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"smartspend/internal/server"
	"smartspend/internal/services"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	flagFormat  string
	flagOut     string
	flagArchive bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a user's expense report to a file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withContainer(func(c *server.Container) error {
			return exportReport(cmd.Context(), cmd.OutOrStdout(), c, flagArchive, flagUser, flagFormat, flagOut)
		})
	},
}

func init() {
	exportCmd.Flags().StringVarP(&flagUser, "user", "u", "", "Username")
	exportCmd.Flags().StringVarP(&flagFormat, "format", "f", "csv", "Report format: csv, json or pdf")
	exportCmd.Flags().StringVarP(&flagOut, "out", "o", "", "Output file (defaults to the report's own name)")
	exportCmd.Flags().BoolVar(&flagArchive, "s3", false, "Also upload the report to the configured S3 bucket")
	rootCmd.AddCommand(exportCmd)
}

// exportReport writes the report to outPath and, with archive set, uploads it too.
func exportReport(ctx context.Context, out io.Writer, c *server.Container, archive bool, username, format, outPath string) error {
	if archive && !c.ExportService.ArchivingEnabled() {
		return services.ErrArchiveDisabled
	}

	user, err := lookupUser(c, username)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	report, err := c.ExportService.Export(user.ID, format, &buf)
	if err != nil {
		return err
	}

	if outPath == "" {
		outPath = report.Filename
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Fprintf(out, "  Wrote %d expenses to %s (%s)\n", report.Rows, outPath, humanize.Bytes(uint64(report.Bytes)))

	if !archive {
		return nil
	}

	location, err := c.ExportService.Archive(ctx, user.ID, user.Username, report, buf.Bytes())
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "  Archived to %s\n", location)
	return nil
}
