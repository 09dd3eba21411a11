package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"bula/internal/logger"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup [medicine-name]",
	Short: "Summarize the leaflet of a medicine by name",
	Long: `Look up a leaflet by medicine name and return its summary, skipping
OCR and name extraction. The name is matched exactly against the official
name first, then lowercased against the alternate names.`,
	Example: `  bula lookup Paracetamol
  bula lookup "Dipirona Sódica" --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)

	lookupCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	lookupCmd.Flags().Bool("json", false, "Output as JSON")
	lookupCmd.Flags().Int("timeout", 120, "Processing timeout in seconds")
}

func runLookup(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("lookup")

	outputPath, _ := cmd.Flags().GetString("output")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	name := strings.Join(args, " ")
	log.Info().Str("name", name).Msg("Looking up leaflet")

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	svc, err := createPipeline(ctx, cfg, false, log)
	if err != nil {
		return handlePipelineError(err, log)
	}
	defer svc.Close(log)

	result, err := svc.GetSummary(ctx, name)
	if err != nil {
		return handlePipelineError(err, log)
	}

	return outputResult(result, outputPath, jsonOutput, log)
}
