package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Embedded default configuration. Every pattern, keyword list and threshold
// the parsers use lives here so a config file can override any of them
// without a rebuild.
const defaultConfigYAML = `
statement:
  TD_CHEQUING:
    patterns:
      table_start: '(?i)Description[\s,]*Withdrawals?[\s,]*Deposits?[\s,]*Date[\s,]*Balance'
      table_end: '(?i)CLOSING\s*BALANCE|TOTALS|Account/Transaction\s*Type\s*Fees'
      starting_balance: '(?i)STARTING\s*BALANCE'
      # Pairs with date_anchor below. Collapsed layouts read with
      # 'date_anchor: first' run the date straight into the digits that
      # follow it; override this to an unbounded form such as
      # '([A-Z]{3})(\d{2})' alongside that setting.
      date_token: '([A-Z]{3})(\d{1,2})(?:\s|$)'
      amount_token: '[\d,]+\.\d{2}'
      reference_shape: '^0\d{7,}\.\d{2}$'
      account_holder: '^(MR|MS|MRS|DR)[A-Z]+'
      account_type: '(?i)([A-Z\s]+(CHEQUING|SAVINGS|CHECKING)[A-Z\s]*)'
      period_short: '(?i)([A-Z]{3})\s*(\d{1,2})/(\d{2})\s*-\s*([A-Z]{3})\s*(\d{1,2})/(\d{2})'
      period_long: '([A-Z][a-z]+)\s+(\d{1,2})\s*-\s*([A-Z][a-z]+)\s+(\d{1,2}),\s*(\d{4})'
      branch_labeled: '(?i)Branch\s*No\.\s*(\d+)'
      branch_positional: '(\d{4})\s+\d{4}-\d{7}'
      account_labeled: '(?i)Account\s*No\.\s*(\d+[-\s]?\d+)'
      account_positional: '\d{4}\s+(\d{4}-\d{7})'
      total_fees: '(?i)TOTAL\s+FEES[:\s]+([\d,]+\.\d{2})'
      rebate: '(?i)REBATE[:\s]+([\d,]+\.\d{2})'
      issuer: TD CANADA TRUST
    # 'last' suits layouts where an earlier reference number can resemble a
    # date; 'first' suits collapsed layouts and needs the unbounded
    # date_token noted above.
    date_anchor: last
    large_amount_cutoff: 100000
    deposit_keywords:
      - CREDIT
      - DEPOSIT
      - MEMO
      - TFR-TO
      - TRANSFERTO
      - REBATE
      - TOC/C
      - E-TRANSFER
      - ETRANSFER
    withdrawal_keywords:
      - TFR-FR
      - W/D
      - PYMT
      - FEE
      - BAKERY
      - VISA
      - MASTRCRD
  TD_CC:
    patterns:
      detect: 'STATEMENT DATE:'
      statement_date: 'STATEMENT DATE:\s*([A-Za-z]+)\s*(\d{1,2}),\s*(\d{4})'
      transaction: '^[A-Z]{3} \d{1,2} [A-Z]{3} \d{1,2}'
      amount: '-?\$[\d,]+\.\d{2}'
    summary_labels:
      - BALANCE
      - Balance
      - Credits
      - Charges
      - Advances
      - Interest
      - Fees
      - Sub-total
    description_cutoffs:
      - ' Annual Interest Rate'
      - ' Available Credit'
      - ' FOREIGN CURRENCY'
      - ' @EXCHANGERATE'`

// version is overridden at build time.
var version = "dev"

var (
	cfgFile string
	verbose bool
	rootCmd = &cobra.Command{
		Use:     "tdstmt [source.pdf] [destination.json]",
		Version: version,
		Short:   "Extract structured transactions from TD bank statement PDFs",
		Long: `tdstmt turns TD chequing and credit-card statement PDFs into
structured JSON: statement header/summary fields, an ordered list of
transaction records, and footer totals where present.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 2 {
				viper.Set("source", args[0])
				viper.Set("destination", args[1])
				return runExtract(cmd, nil)
			}
			return cmd.Help()
		},
	}
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initLogging)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default is ./.tdstmt.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

func initLogging() {
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.SetConfigName(".tdstmt")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("TDSTMT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			viper.SetConfigType("yaml")
			if err := viper.ReadConfig(bytes.NewBufferString(defaultConfigYAML)); err != nil {
				fmt.Printf("Error loading embedded configuration: %v\n", err)
				os.Exit(1)
			}
		} else {
			fmt.Printf("Error reading config file: %v\n", err)
			os.Exit(1)
		}
	}
}
