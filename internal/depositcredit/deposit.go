// Package depositcredit implements the deposit-to-points workflow: it
// consumes confirmed deposits from a deposit stream, resolves the sending
// wallet to a ledger user and credits that user with points proportional to
// the deposited amount.
package depositcredit

// Deposit is a confirmed incoming transfer as announced by the deposit
// stream. FromAddress is the sender wallet in its user-friendly form and
// Amount is denominated in whole coins.
type Deposit struct {
	FromAddress string  `json:"from_address"`
	Amount      float64 `json:"amount"`
}
