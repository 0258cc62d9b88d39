package common

// Record is a single chequing statement transaction. Withdrawal and Deposit
// are mutually exclusive; a nil field serializes as null so consumers can
// tell "not applicable" from "0.00".
type Record struct {
	Date        string  `json:"date" csv:"date"`
	Description string  `json:"description" csv:"description"`
	Withdrawal  *string `json:"withdrawal" csv:"withdrawal"`
	Deposit     *string `json:"deposit" csv:"deposit"`
	Balance     *string `json:"balance" csv:"balance"`
}

// CardRecord is a single credit-card statement transaction. TransactionDate
// and PostingDate are each year-rolled independently against the statement
// month.
type CardRecord struct {
	TransactionDate string `json:"tdate" csv:"tdate"`
	PostingDate     string `json:"pdate" csv:"pdate"`
	Description     string `json:"description" csv:"description"`
	Amount          string `json:"amount" csv:"amount"`
}

// ChequingResult is the emitted artifact for a chequing statement. Header
// and footer are best-effort field maps; a missing key means "not found",
// never an error.
type ChequingResult struct {
	Header       map[string]string `json:"header"`
	Transactions []Record          `json:"transactions"`
	Footer       map[string]string `json:"footer"`
}

// CardResult is the emitted artifact for a credit-card statement.
type CardResult struct {
	Summary      map[string]string `json:"summary"`
	Transactions []CardRecord      `json:"transactions"`
}

func (r ChequingResult) Count() int { return len(r.Transactions) }

func (r CardResult) Count() int { return len(r.Transactions) }
