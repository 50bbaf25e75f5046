package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"daftar/internal/archive"
	"daftar/internal/core"
	"daftar/internal/ledger"
	"daftar/internal/log"
	"daftar/internal/services"
	"daftar/internal/sheets/google"
)

var exportOpts struct {
	from  string
	to    string
	out   string
	s3    bool
	sheet bool
}

func init() {
	rootCmd.AddCommand(exportCmd)
	f := exportCmd.Flags()
	f.StringVar(&exportOpts.from, "from", "", "First order date to include (YYYY-MM-DD)")
	f.StringVar(&exportOpts.to, "to", "", "Last order date to include (YYYY-MM-DD)")
	f.StringVarP(&exportOpts.out, "out", "o", "-", "Write the CSV to this file (- for stdout)")
	f.BoolVar(&exportOpts.s3, "s3", false, "Also archive the CSV to S3")
	f.BoolVar(&exportOpts.sheet, "sheet", false, "Also publish the export to Google Sheets")
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the dashboard as CSV",
	Long: `Write the dashboard statistics, partner shares and the matching orders
for an optional date range as CSV. The same export can be archived to S3 and
published to a Google spreadsheet.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func parseOptionalDate(flag, v string) (core.Date, error) {
	if v == "" {
		return core.Date{}, nil
	}
	d, err := core.ParseDate(v)
	if err != nil {
		return core.Date{}, fmt.Errorf("--%s: %w", flag, err)
	}
	return d, nil
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	from, err := parseOptionalDate("from", exportOpts.from)
	if err != nil {
		return err
	}
	to, err := parseOptionalDate("to", exportOpts.to)
	if err != nil {
		return err
	}
	if exportOpts.s3 {
		if err := appConfig.RequireS3(); err != nil {
			return err
		}
	}
	if exportOpts.sheet {
		if err := appConfig.RequireSheets(); err != nil {
			return err
		}
	}

	res, err := openBackend(ctx, true)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", log.FieldError, err)
		}
	}()
	dash := services.NewDashboardService(res.Store, res.Store, logger)

	rows, err := dash.ExportRows(ctx, from, to)
	if err != nil {
		return err
	}

	targets := exportTargets{
		write: func(data []byte) error { return writeExport(exportOpts.out, data) },
	}
	if exportOpts.s3 {
		targets.archive = archiveExport
	}
	if exportOpts.sheet {
		targets.publish = publishExport
	}
	return deliverExport(ctx, rows, targets)
}

// exportTargets receives one export. archive and publish are optional.
type exportTargets struct {
	write   func(data []byte) error
	archive func(ctx context.Context, data []byte) error
	publish func(ctx context.Context, rows [][]string) error
}

// deliverExport encodes rows once and hands the same export to every target,
// so the file, the archive and the sheet always agree.
func deliverExport(ctx context.Context, rows [][]string, t exportTargets) error {
	var buf bytes.Buffer
	if err := ledger.WriteCSV(&buf, rows); err != nil {
		return err
	}
	if err := t.write(buf.Bytes()); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	if t.archive != nil {
		g.Go(func() error {
			return t.archive(gctx, buf.Bytes())
		})
	}
	if t.publish != nil {
		g.Go(func() error {
			return t.publish(gctx, rows)
		})
	}
	return g.Wait()
}

func writeExport(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	logger.Info("Export written", "path", path, "bytes", len(data))
	return nil
}

func archiveExport(ctx context.Context, data []byte) error {
	a, err := archive.NewS3Archive(ctx, archive.Config{
		Bucket:  appConfig.S3Bucket,
		Prefix:  appConfig.S3Prefix,
		Region:  appConfig.AWSRegion,
		Profile: appConfig.AWSProfile,
	}, logger)
	if err != nil {
		return err
	}
	_, err = a.Upload(ctx, data)
	return err
}

func publishExport(ctx context.Context, rows [][]string) error {
	client, err := google.New(ctx, google.Config{
		SpreadsheetID:      appConfig.GoogleSpreadsheetID,
		SheetName:          appConfig.GoogleSheetName,
		ServiceAccountJSON: appConfig.GoogleServiceAccountJSON,
		ServiceAccountFile: appConfig.GoogleServiceAccountFile,
	}, logger)
	if err != nil {
		return err
	}
	_, err = client.PublishRows(ctx, rows)
	return err
}
