package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"bula/internal/catalog"
	"bula/internal/logger"
	"bula/internal/sheets"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import leaflets from a Google Sheet into the leaflet store",
	Long: `Read leaflet rows from a Google Sheet and upsert them by official name.

Expected columns (first row is a header):
  A - official medicine name
  B - alternate names, comma separated (stored lowercase)
  C - full leaflet text

Existing summaries are never touched, so re-importing a leaflet keeps its
cached summary.

Required environment variables:
  GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS - service account with sheet access
  GOOGLE_SHEET_URL - spreadsheet URL (or use --sheet-url)`,
	Example: `  bula import --sheet-url "https://docs.google.com/spreadsheets/d/.../edit"
  bula import --worksheet Bulas --report-sheet Importacao
  bula import --dry-run`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().String("sheet-url", "", "Google Sheets URL (default: GOOGLE_SHEET_URL)")
	importCmd.Flags().String("worksheet", "", "Worksheet to read (default: GOOGLE_SHEET_WORKSHEET or Bulas)")
	importCmd.Flags().String("report-sheet", "", "Worksheet to append the import report to")
	importCmd.Flags().Bool("dry-run", false, "Parse the sheet without writing to the store")
	importCmd.Flags().Int("timeout", 600, "Processing timeout in seconds")
}

func runImport(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("import")

	sheetURL, _ := cmd.Flags().GetString("sheet-url")
	worksheet, _ := cmd.Flags().GetString("worksheet")
	reportSheet, _ := cmd.Flags().GetString("report-sheet")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}
	if sheetURL == "" {
		sheetURL = cfg.GoogleSheetURL
	}
	if worksheet == "" {
		worksheet = cfg.GoogleSheetWorksheet
	}
	if sheetURL == "" {
		return fmt.Errorf("no spreadsheet given: use --sheet-url or set GOOGLE_SHEET_URL")
	}

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	sheetsService, err := sheets.NewSheetsService(ctx, sheetURL)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create Google Sheets service")
		return fmt.Errorf("failed to create Google Sheets service: %w", err)
	}

	records, err := catalog.NewReader(sheetsService).ReadLeaflets(ctx, worksheet)
	if err != nil {
		return fmt.Errorf("failed to read leaflet catalog: %w", err)
	}

	if dryRun {
		for _, rec := range records {
			fmt.Printf("%s\t%d alternate names\t%d characters\n", rec.OfficialName, len(rec.AlternateNames), len(rec.FullText))
		}
		fmt.Printf("\n%d leaflets parsed (dry run, nothing written)\n", len(records))
		return nil
	}

	leaflets, err := createStore(ctx, cfg, log)
	if err != nil {
		return handlePipelineError(err, log)
	}
	defer func() {
		if closeErr := leaflets.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close leaflet store")
		}
	}()

	report, err := catalog.NewImporter(leaflets).Import(ctx, records)
	if err != nil {
		return fmt.Errorf("import interrupted after %d leaflets: %w", len(report.Rows), err)
	}

	if reportSheet != "" {
		if err := sheetsService.WriteReport(ctx, report.Rows, reportSheet); err != nil {
			log.Warn().Err(err).Str("sheet", reportSheet).Msg("Failed to write import report")
		}
	}

	fmt.Printf("Import finished: %d created, %d updated, %d failed\n", report.Created, report.Updated, report.Failed)
	if report.Failed > 0 {
		return fmt.Errorf("%d leaflets failed to import", report.Failed)
	}
	return nil
}
