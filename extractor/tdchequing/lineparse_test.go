package tdchequing

import (
	"fmt"
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLineConfig(anchor DateAnchor) LineConfig {
	return LineConfig{
		DateToken:         regexp.MustCompile(`([A-Z]{3})(\d{1,2})(?:\s|$)`),
		AmountToken:       regexp.MustCompile(`[\d,]+\.\d{2}`),
		ReferenceShape:    regexp.MustCompile(`^0\d{7,}\.\d{2}$`),
		Anchor:            anchor,
		LargeAmountCutoff: decimal.NewFromInt(100000),
		DepositKeywords: []string{
			"CREDIT", "DEPOSIT", "MEMO", "TFR-TO", "TRANSFERTO",
			"REBATE", "TOC/C", "E-TRANSFER", "ETRANSFER",
		},
		WithdrawalKeywords: []string{
			"TFR-FR", "W/D", "PYMT", "FEE", "BAKERY", "VISA", "MASTRCRD",
		},
	}
}

func TestParseLine_DepositKeyword(t *testing.T) {
	rec := ParseLine(testLineConfig(AnchorLast), "CREDITMEMO 3,000.00 OCT03", 2023)

	require.NotNil(t, rec)
	assert.Equal(t, "OCT-03-2023", rec.Date)
	assert.Equal(t, "CREDITMEMO", rec.Description)
	require.NotNil(t, rec.Deposit)
	assert.Equal(t, "3000.00", *rec.Deposit)
	assert.Nil(t, rec.Withdrawal)
}

func TestParseLine_WithdrawalKeyword(t *testing.T) {
	rec := ParseLine(testLineConfig(AnchorLast), "MAXIMABAKERY _F 22.00 OCT03", 2023)

	require.NotNil(t, rec)
	assert.Equal(t, "MAXIMABAKERY _F", rec.Description)
	require.NotNil(t, rec.Withdrawal)
	assert.Equal(t, "22.00", *rec.Withdrawal)
	assert.Nil(t, rec.Deposit)
}

func TestParseLine_SingleDayDigit(t *testing.T) {
	rec := ParseLine(testLineConfig(AnchorLast), "SENDETFRCA 120.00 OCT3", 2023)

	require.NotNil(t, rec)
	assert.Equal(t, "OCT-03-2023", rec.Date)
}

func TestParseLine_EmptyLine(t *testing.T) {
	assert.Nil(t, ParseLine(testLineConfig(AnchorLast), "   ", 2023))
}

func TestParseLine_NoDateToken(t *testing.T) {
	assert.Nil(t, ParseLine(testLineConfig(AnchorLast), "ACCOUNT SUMMARY 123.00", 2023))
}

func TestParseLine_ReferenceNumberOnly(t *testing.T) {
	// The lone numeric token has the reference shape: leading zero,
	// 7+ digits. All candidates filter out, so no record is emitted.
	assert.Nil(t, ParseLine(testLineConfig(AnchorLast), "GC 01234567.00 OCT03", 2023))
}

func TestParseLine_LargeValueFiltered(t *testing.T) {
	assert.Nil(t, ParseLine(testLineConfig(AnchorLast), "DEPOSITREF 250,000.00 OCT03", 2023))
}

func TestParseLine_SmallestAmountWins(t *testing.T) {
	rec := ParseLine(testLineConfig(AnchorLast), "WY572TFR-FR 82.00 9,597.75 OCT03", 2023)

	require.NotNil(t, rec)
	assert.Equal(t, "WY572TFR-FR", rec.Description)
	require.NotNil(t, rec.Withdrawal)
	assert.Equal(t, "82.00", *rec.Withdrawal)
	require.NotNil(t, rec.Balance)
	assert.Equal(t, "9597.75", *rec.Balance)
}

func TestParseLine_BalanceAfterDate(t *testing.T) {
	rec := ParseLine(testLineConfig(AnchorLast), "CREDITMEMO 3,000.00 OCT03 12,597.75", 2023)

	require.NotNil(t, rec)
	require.NotNil(t, rec.Deposit)
	assert.Equal(t, "3000.00", *rec.Deposit)
	require.NotNil(t, rec.Balance)
	assert.Equal(t, "12597.75", *rec.Balance)
}

func TestParseLine_TrailingReferenceStripped(t *testing.T) {
	rec := ParseLine(testLineConfig(AnchorLast), "WY572TFR-FR0525308 82.00 OCT03", 2023)

	require.NotNil(t, rec)
	assert.Equal(t, "WY572TFR-FR", rec.Description)
	require.NotNil(t, rec.Withdrawal)
	assert.Equal(t, "82.00", *rec.Withdrawal)
}

func TestParseLine_EmptyDescriptionSkipped(t *testing.T) {
	// Only stray digits precede the amount; cleanup leaves nothing.
	assert.Nil(t, ParseLine(testLineConfig(AnchorLast), "123-45 10.00 OCT03", 2023))
}

func TestParseLine_DefaultsToWithdrawal(t *testing.T) {
	rec := ParseLine(testLineConfig(AnchorLast), "CORNERSTORE 14.25 OCT07", 2023)

	require.NotNil(t, rec)
	require.NotNil(t, rec.Withdrawal)
	assert.Equal(t, "14.25", *rec.Withdrawal)
	assert.Nil(t, rec.Deposit)
}

func TestParseLine_TFRPrefixDisambiguation(t *testing.T) {
	cfg := testLineConfig(AnchorLast)
	// Keyword lists without the TFR entries, so only the prefix rules fire.
	cfg.DepositKeywords = []string{"CREDIT"}
	cfg.WithdrawalKeywords = []string{"FEE"}

	to := ParseLine(cfg, "WY572TFR-TOSAVINGS 50.00 OCT08", 2023)
	require.NotNil(t, to)
	assert.NotNil(t, to.Deposit)
	assert.Nil(t, to.Withdrawal)

	fr := ParseLine(cfg, "WY572TFR-FRSAVINGS 50.00 OCT08", 2023)
	require.NotNil(t, fr)
	assert.NotNil(t, fr.Withdrawal)
	assert.Nil(t, fr.Deposit)
}

func TestParseLine_AnchorConvention(t *testing.T) {
	line := "CREDITMEMO 3,000.00 OCT03 NSXREF OCT05"

	first := ParseLine(testLineConfig(AnchorFirst), line, 2023)
	require.NotNil(t, first)
	assert.Equal(t, "OCT-03-2023", first.Date)

	last := ParseLine(testLineConfig(AnchorLast), line, 2023)
	require.NotNil(t, last)
	assert.Equal(t, "OCT-05-2023", last.Date)
}

func TestParseLine_CollapsedLayoutNeedsUnboundedDateToken(t *testing.T) {
	// Collapsed layouts run the date straight into the digits that follow,
	// so the bounded default token sees no date at all.
	line := "CREDITMEMO3,000.00OCT0312,575.75"
	assert.Nil(t, ParseLine(testLineConfig(AnchorFirst), line, 2023))

	// The documented pairing: first-date anchor plus an unbounded token.
	cfg := testLineConfig(AnchorFirst)
	cfg.DateToken = regexp.MustCompile(`([A-Z]{3})(\d{2})`)

	rec := ParseLine(cfg, line, 2023)
	require.NotNil(t, rec)
	assert.Equal(t, "OCT-03-2023", rec.Date)
	assert.Equal(t, "CREDITMEMO", rec.Description)
	require.NotNil(t, rec.Deposit)
	assert.Equal(t, "3000.00", *rec.Deposit)
	require.NotNil(t, rec.Balance)
	assert.Equal(t, "12575.75", *rec.Balance)
}

func TestParseLine_RoundTrip(t *testing.T) {
	line := fmt.Sprintf("%s %s %s", "E-TRANSFERJOHN", "45.10", "NOV07")

	rec := ParseLine(testLineConfig(AnchorLast), line, 2023)

	require.NotNil(t, rec)
	assert.Equal(t, "E-TRANSFERJOHN", rec.Description)
	assert.Equal(t, "NOV-07-2023", rec.Date)
	require.NotNil(t, rec.Deposit)
	assert.Equal(t, "45.10", *rec.Deposit)
}

func TestParseStartingBalance(t *testing.T) {
	rec := ParseStartingBalance(testLineConfig(AnchorLast), "STARTINGBALANCE SEP29 9,597.75", 2023)

	require.NotNil(t, rec)
	assert.Equal(t, "SEP-29-2023", rec.Date)
	assert.Equal(t, "STARTING BALANCE", rec.Description)
	assert.Nil(t, rec.Withdrawal)
	assert.Nil(t, rec.Deposit)
	require.NotNil(t, rec.Balance)
	assert.Equal(t, "9597.75", *rec.Balance)
}

func TestParseStartingBalance_MissingPieces(t *testing.T) {
	cfg := testLineConfig(AnchorLast)

	assert.Nil(t, ParseStartingBalance(cfg, "STARTINGBALANCE SEP29", 2023))
	assert.Nil(t, ParseStartingBalance(cfg, "STARTINGBALANCE 9,597.75", 2023))
}
