package tdcc

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/tdstatement/tdstmt/extractor/common"
)

type config struct {
	statementDate      *regexp.Regexp
	transaction        *regexp.Regexp
	amount             *regexp.Regexp
	summaryLabels      []string
	descriptionCutoffs []string
}

func loadConfig() config {
	return config{
		statementDate:      regexp.MustCompile(viper.GetString("statement.TD_CC.patterns.statement_date")),
		transaction:        regexp.MustCompile(viper.GetString("statement.TD_CC.patterns.transaction")),
		amount:             regexp.MustCompile(viper.GetString("statement.TD_CC.patterns.amount")),
		summaryLabels:      viper.GetStringSlice("statement.TD_CC.summary_labels"),
		descriptionCutoffs: viper.GetStringSlice("statement.TD_CC.description_cutoffs"),
	}
}

// Extract runs the credit-card pipeline: statement date, summary balances,
// then the tdate/pdate transaction lines with their year roll.
func Extract(pages []string) common.CardResult {
	cfg := loadConfig()

	dateStr, month, year, found := parseStatementDate(pages, cfg)
	summary := parseSummary(pages, cfg)
	if found {
		summary["StatementDate"] = dateStr
		summary["StatementYear"] = strconv.Itoa(year)
	}
	transactions := parseTransactions(pages, cfg, month, year)

	logrus.Debugf("credit-card: %d summary fields, %d transactions", len(summary), len(transactions))

	return common.CardResult{
		Summary:      summary,
		Transactions: transactions,
	}
}

// parseStatementDate finds the "STATEMENT DATE: Month D, YYYY" marker. When
// absent, the current processing month and year are the silent default used
// for the year roll; the summary then carries no statement-date fields.
func parseStatementDate(pages []string, cfg config) (string, time.Month, int, bool) {
	for _, page := range pages {
		m := cfg.statementDate.FindStringSubmatch(page)
		if m == nil {
			continue
		}
		parsed, err := time.Parse("January", m[1])
		if err != nil {
			continue
		}
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		return fmt.Sprintf("%s %02d, %d", m[1], day, year), parsed.Month(), year, true
	}

	now := time.Now()
	return "", now.Month(), now.Year(), false
}

// parseSummary collects the dollar-bearing balance lines that are not
// transactions: "label: value" pairs, or known balance labels split at the
// first dollar sign.
func parseSummary(pages []string, cfg config) map[string]string {
	summary := map[string]string{}

	for _, page := range pages {
		for _, raw := range strings.Split(page, "\n") {
			line := strings.TrimSpace(raw)
			if !strings.Contains(line, "$") || cfg.transaction.MatchString(line) {
				continue
			}

			if i := strings.Index(line, ":"); i >= 0 {
				key := strings.TrimSpace(line[:i])
				if key != "" {
					summary[key] = strings.TrimSpace(line[i+1:])
				}
				continue
			}

			if containsAny(line, cfg.summaryLabels) {
				parts := strings.SplitN(line, "$", 2)
				key := strings.TrimSpace(parts[0])
				if key != "" {
					summary[key] = "$" + strings.TrimSpace(parts[1])
				}
			}
		}
	}

	return summary
}

func containsAny(line string, labels []string) bool {
	for _, label := range labels {
		if strings.Contains(line, label) {
			return true
		}
	}
	return false
}

// parseTransactions extracts records from lines opening with the two date
// pair: transaction date then posting date, with the signed amount at the
// end and the merchant description between.
func parseTransactions(pages []string, cfg config, statementMonth time.Month, statementYear int) []common.CardRecord {
	records := []common.CardRecord{}

	for _, page := range pages {
		for _, raw := range strings.Split(page, "\n") {
			line := strings.TrimSpace(raw)
			if !cfg.transaction.MatchString(line) {
				continue
			}

			parts := strings.Fields(line)
			if len(parts) < 4 {
				continue
			}
			tdateRaw := parts[0] + " " + parts[1]
			pdateRaw := parts[2] + " " + parts[3]

			amount := cfg.amount.FindString(line)
			if amount == "" {
				continue
			}

			desc := strings.Replace(line, amount, "", 1)
			desc = strings.Replace(desc, tdateRaw, "", 1)
			desc = strings.Replace(desc, pdateRaw, "", 1)
			desc = strings.TrimSpace(desc)
			for _, cutoff := range cfg.descriptionCutoffs {
				if i := strings.Index(desc, cutoff); i >= 0 {
					desc = desc[:i]
				}
			}

			records = append(records, common.CardRecord{
				TransactionDate: formatCardDate(tdateRaw, statementMonth, statementYear),
				PostingDate:     formatCardDate(pdateRaw, statementMonth, statementYear),
				Description:     strings.TrimSpace(desc),
				Amount:          common.CleanAmount(amount),
			})
		}
	}

	return records
}

// formatCardDate normalizes "OCT 3" to MON-DD-YYYY, rolling the year when
// the transaction month sits on the other side of a December/January
// statement boundary. Unrecognized tokens pass through unchanged.
func formatCardDate(raw string, statementMonth time.Month, statementYear int) string {
	parts := strings.Fields(raw)
	if len(parts) != 2 {
		return raw
	}
	month, ok := common.MonthNumber(parts[0])
	if !ok {
		return raw
	}
	day, err := strconv.Atoi(parts[1])
	if err != nil {
		return raw
	}
	year := common.RollYear(month, statementMonth, statementYear)
	return common.FormatDate(parts[0], day, year)
}
