package tdchequing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/tdstatement/tdstmt/extractor/common"
)

type config struct {
	tableStart        *regexp.Regexp
	tableEnd          *regexp.Regexp
	startingBalance   *regexp.Regexp
	accountHolder     *regexp.Regexp
	accountType       *regexp.Regexp
	periodShort       *regexp.Regexp
	periodLong        *regexp.Regexp
	branchLabeled     *regexp.Regexp
	branchPositional  *regexp.Regexp
	accountLabeled    *regexp.Regexp
	accountPositional *regexp.Regexp
	totalFees         *regexp.Regexp
	rebate            *regexp.Regexp
	issuer            string
	line              LineConfig
}

func pattern(key string) *regexp.Regexp {
	return regexp.MustCompile(viper.GetString("statement.TD_CHEQUING.patterns." + key))
}

func loadConfig() config {
	return config{
		tableStart:        pattern("table_start"),
		tableEnd:          pattern("table_end"),
		startingBalance:   pattern("starting_balance"),
		accountHolder:     pattern("account_holder"),
		accountType:       pattern("account_type"),
		periodShort:       pattern("period_short"),
		periodLong:        pattern("period_long"),
		branchLabeled:     pattern("branch_labeled"),
		branchPositional:  pattern("branch_positional"),
		accountLabeled:    pattern("account_labeled"),
		accountPositional: pattern("account_positional"),
		totalFees:         pattern("total_fees"),
		rebate:            pattern("rebate"),
		issuer:            viper.GetString("statement.TD_CHEQUING.patterns.issuer"),
		line: LineConfig{
			DateToken:          pattern("date_token"),
			AmountToken:        pattern("amount_token"),
			ReferenceShape:     pattern("reference_shape"),
			Anchor:             anchorFromString(viper.GetString("statement.TD_CHEQUING.date_anchor")),
			LargeAmountCutoff:  decimal.NewFromInt(viper.GetInt64("statement.TD_CHEQUING.large_amount_cutoff")),
			DepositKeywords:    viper.GetStringSlice("statement.TD_CHEQUING.deposit_keywords"),
			WithdrawalKeywords: viper.GetStringSlice("statement.TD_CHEQUING.withdrawal_keywords"),
		},
	}
}

// Extract runs the chequing pipeline over per-page statement text: normalize,
// locate the transaction table, parse header fields, transaction lines and
// footer totals. Every field is best effort; the result is whatever could be
// extracted.
func Extract(pages []string) common.ChequingResult {
	cfg := loadConfig()

	normalized := make([]string, len(pages))
	for i, page := range pages {
		normalized[i] = common.CollapseSpacedText(page)
	}

	header := parseHeader(normalized, cfg)
	year := common.StatementYear(header["StatementPeriod"])
	transactions := parseTransactions(normalized, cfg, year)
	footer := parseFooter(normalized, cfg)

	logrus.Debugf("chequing: %d header fields, %d transactions, %d footer fields",
		len(header), len(transactions), len(footer))

	return common.ChequingResult{
		Header:       header,
		Transactions: transactions,
		Footer:       footer,
	}
}

// parseHeader scans page text for labeled statement metadata, stopping at
// the first page that yields anything (header fields live on page one).
// Each field is independent: one miss never blocks the others.
func parseHeader(pages []string, cfg config) map[string]string {
	header := map[string]string{}

	for _, page := range pages {
		lines := strings.Split(page, "\n")

		for _, line := range lines {
			if cfg.accountHolder.MatchString(strings.TrimSpace(line)) {
				header["AccountHolder"] = strings.TrimSpace(line)
				break
			}
		}

		generic := ""
		for _, line := range lines {
			if strings.Contains(line, "ALLINCLUSIVE") || strings.Contains(line, "INCLUSIVE") {
				header["AccountType"] = "ALL INCLUSIVE"
				break
			}
			if generic == "" {
				if m := cfg.accountType.FindStringSubmatch(line); m != nil {
					generic = strings.TrimSpace(m[1])
				}
			}
		}
		if _, ok := header["AccountType"]; !ok && generic != "" {
			header["AccountType"] = generic
		}

		if m := cfg.periodShort.FindStringSubmatch(page); m != nil {
			yy, _ := strconv.Atoi(m[6])
			year := 2000 + yy
			header["StatementPeriod"] = fmt.Sprintf("%s %s - %s %s, %d", m[1], m[2], m[4], m[5], year)
		} else if m := cfg.periodLong.FindStringSubmatch(page); m != nil {
			header["StatementPeriod"] = fmt.Sprintf("%s %s - %s %s, %s", m[1], m[2], m[3], m[4], m[5])
		}

		if m := cfg.branchLabeled.FindStringSubmatch(page); m != nil {
			header["BranchNumber"] = m[1]
		} else if m := cfg.branchPositional.FindStringSubmatch(page); m != nil {
			header["BranchNumber"] = m[1]
		}

		if m := cfg.accountLabeled.FindStringSubmatch(page); m != nil {
			header["AccountNumber"] = strings.ReplaceAll(m[1], " ", "")
		} else if m := cfg.accountPositional.FindStringSubmatch(page); m != nil {
			header["AccountNumber"] = strings.ReplaceAll(m[1], " ", "")
		}

		if len(header) > 0 {
			break
		}
	}

	return header
}

// parseTransactions walks each page's lines with a per-page "table started"
// flag. The starting-balance marker becomes a synthetic opening record; the
// table-end marker stops the page; a missing start anchor simply yields no
// records for that page.
func parseTransactions(pages []string, cfg config, year int) []common.Record {
	records := []common.Record{}

	for _, page := range pages {
		started := false

		for _, raw := range strings.Split(page, "\n") {
			line := strings.TrimSpace(raw)
			if line == "" {
				continue
			}

			if cfg.tableStart.MatchString(line) {
				started = true
				continue
			}

			if cfg.startingBalance.MatchString(line) {
				if rec := ParseStartingBalance(cfg.line, line, year); rec != nil {
					records = append(records, *rec)
				}
				continue
			}

			if cfg.tableEnd.MatchString(line) {
				break
			}

			if !started {
				continue
			}

			if rec := ParseLine(cfg.line, line, year); rec != nil {
				records = append(records, *rec)
			}
		}
	}

	return records
}

func parseFooter(pages []string, cfg config) map[string]string {
	footer := map[string]string{}

	for _, page := range pages {
		if m := cfg.totalFees.FindStringSubmatch(page); m != nil {
			footer["TotalFees"] = m[1]
		}
		if m := cfg.rebate.FindStringSubmatch(page); m != nil {
			footer["Rebate"] = m[1]
		}
		if cfg.issuer != "" && strings.Contains(page, cfg.issuer) {
			footer["Issuer"] = cfg.issuer
		}
	}

	return footer
}
