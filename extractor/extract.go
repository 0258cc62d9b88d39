package extractor

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/tdstatement/tdstmt/extractor/common"
	"github.com/tdstatement/tdstmt/extractor/tdcc"
	"github.com/tdstatement/tdstmt/extractor/tdchequing"
)

// Statement formats accepted by ProcessFile and the --format flag.
const (
	FormatAuto     = "auto"
	FormatChequing = "chequing"
	FormatCard     = "cc"
)

// Result is an assembled parse artifact, ready to serialize.
type Result interface {
	Count() int
}

// ProcessFile extracts the pages of the PDF at path and runs the matching
// format pipeline. It fails only when the document is unreadable or yields
// no text at all; parsing gaps surface as omitted fields, not errors.
func ProcessFile(path, format string) (Result, error) {
	pages, err := common.ExtractPages(path)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no text could be extracted from %s", path)
	}
	return Process(pages, format), nil
}

// Process runs the format pipeline over already-extracted page text.
func Process(pages []string, format string) Result {
	if format == "" || format == FormatAuto {
		format = DetectFormat(pages)
	}

	switch format {
	case FormatCard:
		logrus.Debug("extracting credit-card statement")
		return tdcc.Extract(pages)
	default:
		logrus.Debug("extracting chequing statement")
		return tdchequing.Extract(pages)
	}
}

// DetectFormat identifies the statement format from page text: the
// credit-card marker wins, otherwise chequing. Chequing is also the default
// when no marker is recognized, being the richer pipeline.
func DetectFormat(pages []string) string {
	combined := strings.Join(pages, "\n")

	if marker := viper.GetString("statement.TD_CC.patterns.detect"); marker != "" && strings.Contains(combined, marker) {
		return FormatCard
	}

	tableStart := regexp.MustCompile(viper.GetString("statement.TD_CHEQUING.patterns.table_start"))
	if !tableStart.MatchString(common.CollapseSpacedText(combined)) {
		logrus.Debug("no known format markers found, defaulting to chequing")
	}
	return FormatChequing
}

// WriteResult serializes the artifact as indented JSON to path. The result
// is written once and never mutated afterwards.
func WriteResult(path string, result Result) error {
	data, err := json.MarshalIndent(result, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
