// Package depositwatch implements the deposit-watch workflow: it polls an
// external transaction indexer for the history of a single account, filters
// out everything already seen, and streams the genuinely new incoming
// deposits as events.
//
// Each call to Watch owns its own watermark (the hash of the most recently
// delivered transaction), so concurrent watchers are fully independent, even
// when they observe the same account.
package depositwatch

// nanotonsPerCoin is the number of indivisible minor units in one coin.
// The indexer reports inbound values in minor units.
const nanotonsPerCoin = 1e9

// Transaction is the domain form of a single transaction record as reported
// by the indexer. The indexer returns histories newest-first; this package
// preserves that ordering everywhere.
type Transaction struct {
	Hash    string // opaque unique transaction identifier
	Success bool   // whether the transaction executed successfully
	Sender  string // raw source address of the inbound message
	Value   int64  // inbound value in minor units (1e9 per coin)
}

// DepositEvent is the notification delivered to a watcher's subscriber for
// each new successful incoming deposit.
type DepositEvent struct {
	FromAddress string  `json:"from_address"` // normalized sender address
	Amount      float64 `json:"amount"`       // deposited amount in whole coins
}

// newTransactionsSince returns the prefix of txs that appears strictly before
// the transaction whose hash equals lastSeenHash, preserving the newest-first
// order of the input.
//
// When lastSeenHash is empty, or no transaction in txs carries it (the
// watermark fell off the indexer's page between polls), the entire input is
// considered new. That is a deliberate policy, not an error: a long enough
// gap between polls silently loses visibility into the skipped middle range.
func newTransactionsSince(txs []Transaction, lastSeenHash string) []Transaction {
	if lastSeenHash == "" {
		return txs
	}

	for i, tx := range txs {
		if tx.Hash == lastSeenHash {
			return txs[:i]
		}
	}

	return txs
}
