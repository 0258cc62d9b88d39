package common

import (
	"fmt"
	"os"
	"strings"

	"github.com/dslipak/pdf"
	lpdf "github.com/ledongthuc/pdf"
	"github.com/sirupsen/logrus"
)

// minUsableText is the total character count under which the primary
// extractor's output is considered too sparse to parse, triggering the
// fallback backend.
const minUsableText = 100

// pageExtractor is one text-extraction backend: per-page plain text for the
// document at path.
type pageExtractor func(path string) ([]string, error)

// ExtractPages returns the plain text of each page of the PDF at path, in
// page order. Pages that yield no text (image-only pages) contribute no
// entry. The row-oriented extractor is tried first; if it fails or produces
// too little text, the plain-text backend is tried before giving up. An
// error is returned only when no text can be obtained at all.
func ExtractPages(path string) ([]string, error) {
	return extractPages(path, extractByRows, extractPlainText)
}

// extractPages is the backend selection policy, split from the concrete
// readers so it can be exercised without real documents.
func extractPages(path string, primary, fallback pageExtractor) ([]string, error) {
	pages, primaryErr := primary(path)
	if primaryErr == nil && totalLen(pages) >= minUsableText {
		return pages, nil
	}
	if primaryErr != nil {
		logrus.WithError(primaryErr).Debug("row extraction failed, trying plain-text backend")
	} else {
		logrus.Debugf("row extraction yielded %d chars, trying plain-text backend", totalLen(pages))
	}

	fallbackPages, fallbackErr := fallback(path)
	if fallbackErr == nil && totalLen(fallbackPages) > totalLen(pages) {
		return fallbackPages, nil
	}
	if primaryErr == nil && len(pages) > 0 {
		return pages, nil
	}
	if primaryErr != nil && fallbackErr != nil {
		return nil, fmt.Errorf("extracting text from %s: %w", path, primaryErr)
	}
	return nil, fmt.Errorf("no text could be extracted from %s", path)
}

func totalLen(pages []string) int {
	n := 0
	for _, p := range pages {
		n += len(strings.TrimSpace(p))
	}
	return n
}

// extractByRows uses the row-grouping reader, joining each row's fragments
// with spaces and a page's rows with newlines.
func extractByRows(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}

	r, err := pdf.NewReader(file, info.Size())
	if err != nil {
		return nil, err
	}

	pages := make([]string, 0, r.NumPage())
	for no := 1; no <= r.NumPage(); no++ {
		rows, err := r.Page(no).GetTextByRow()
		if err != nil {
			logrus.WithError(err).Debugf("no text from page %d", no)
			continue
		}

		var builder strings.Builder
		for _, row := range rows {
			for i, text := range row.Content {
				builder.WriteString(text.S)
				if i < len(row.Content)-1 {
					builder.WriteByte(' ')
				}
			}
			builder.WriteByte('\n')
		}

		if page := strings.TrimSpace(builder.String()); page != "" {
			pages = append(pages, page)
		}
	}

	return pages, nil
}

// extractPlainText is the fallback backend for documents the row reader
// cannot decode.
func extractPlainText(path string) ([]string, error) {
	file, r, err := lpdf.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var pages []string
	for no := 1; no <= r.NumPage(); no++ {
		page := r.Page(no)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			logrus.WithError(err).Debugf("no text from page %d", no)
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}

	return pages, nil
}
