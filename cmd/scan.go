package cmd

import (
	"encoding/base64"

	"github.com/spf13/cobra"

	"bula/internal/logger"
)

var scanCmd = &cobra.Command{
	Use:   "scan [image-file]",
	Short: "Identify a medicine from a package photo and summarize its leaflet",
	Long: `Run the full pipeline on a photo of a medicine package:

  1. read the text on the package (Google Cloud Vision or Document AI)
  2. ask the language model for the medicine name
  3. find the leaflet by official name, then by alternate name
  4. return the cached summary, or generate one and store it on the leaflet

Required environment variables:
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string
  GOOGLE_CLOUD_PROJECT - Your Google Cloud project ID (Firestore, Document AI)
  GEMINI_API_KEY - Key for LLM_PROVIDER=gemini (default)`,
	Example: `  # Summarize the leaflet of the medicine in box.jpg
  bula scan box.jpg

  # JSON output as returned by the HTTP function
  bula scan box.jpg --json -o result.json`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	scanCmd.Flags().Bool("json", false, "Output as JSON")
	scanCmd.Flags().Int("timeout", 120, "Processing timeout in seconds")
}

func runScan(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("scan")

	outputPath, _ := cmd.Flags().GetString("output")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	imagePath := args[0]

	log.Info().
		Str("file", imagePath).
		Str("output", outputPath).
		Bool("json", jsonOutput).
		Int("timeout", timeoutSecs).
		Msg("Starting leaflet scan")

	image, err := readImageFile(imagePath, log)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	svc, err := createPipeline(ctx, cfg, true, log)
	if err != nil {
		return handlePipelineError(err, log)
	}
	defer svc.Close(log)

	result, err := svc.ProcessImage(ctx, base64.StdEncoding.EncodeToString(image))
	if err != nil {
		return handlePipelineError(err, log)
	}

	return outputResult(result, outputPath, jsonOutput, log)
}
