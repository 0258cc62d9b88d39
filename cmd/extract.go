package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tdstatement/tdstmt/extractor"
	"github.com/tdstatement/tdstmt/extractor/export"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extracts a statement",
	Long: `Extracts a single statement PDF into a structured JSON artifact.
The statement format is auto-detected unless --format is given. Individual
fields or lines that cannot be parsed are omitted; the command only fails
when no text can be read from the document at all.`,
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	source := viper.GetString("source")
	destination := viper.GetString("destination")
	if source == "" || destination == "" {
		return fmt.Errorf("both --file and --output are required")
	}

	result, err := extractor.ProcessFile(source, viper.GetString("format"))
	if err != nil {
		return err
	}

	if err := extractor.WriteResult(destination, result); err != nil {
		return err
	}

	if csvPath := viper.GetString("csv"); csvPath != "" {
		if err := export.WriteCSV(csvPath, result); err != nil {
			return err
		}
	}

	fmt.Printf("Extracted %d transactions from %s\n", result.Count(), source)
	return nil
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringP("file", "f", "", "Statement PDF to extract")
	extractCmd.Flags().StringP("output", "o", "", "Destination path for the JSON artifact")
	extractCmd.Flags().String("format", extractor.FormatAuto, "Statement format: chequing, cc or auto")
	extractCmd.Flags().String("csv", "", "Also write the transactions to this CSV path")
	viper.BindPFlag("source", extractCmd.Flags().Lookup("file"))
	viper.BindPFlag("destination", extractCmd.Flags().Lookup("output"))
	viper.BindPFlag("format", extractCmd.Flags().Lookup("format"))
	viper.BindPFlag("csv", extractCmd.Flags().Lookup("csv"))
}
