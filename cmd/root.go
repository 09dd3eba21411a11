package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bula/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "bula",
	Short: "Bula CLI - medicine leaflet summaries from package photos",
	Long: `Bula identifies a medicine from a photo of its package and returns a
structured summary of its leaflet ("bula"): contraindications, usage,
dosage, adverse reactions and risks.

Text is read with Google Cloud Vision or Document AI, the medicine name and
the summary come from a language model, and leaflets live in Firestore or
MongoDB. Summaries are generated once and cached on the leaflet record.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Info().
			Str("version", version).
			Msg("Bula CLI executed")

		fmt.Println("Welcome to Bula CLI!")
		fmt.Println("Use --help to see available commands and options.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}
