package tonapi

import "github.com/gabapcia/depositwatch/internal/depositwatch"

type (
	// accountAddressResponse identifies the counterparty of a message in the
	// indexer's raw "workchain:hex" form.
	accountAddressResponse struct {
		Address string `json:"address"`
	}

	// messageResponse represents the inbound message attached to a
	// transaction. Value is expressed in nanocoins.
	messageResponse struct {
		Value  int64                   `json:"value"`
		Source *accountAddressResponse `json:"source"`
	}

	// transactionResponse represents a single transaction entry as returned
	// by the tonapi transactions endpoint.
	transactionResponse struct {
		Hash    string           `json:"hash"`
		Success bool             `json:"success"`
		InMsg   *messageResponse `json:"in_msg"`
	}

	// transactionsResponse is the envelope of the transactions endpoint. The
	// entries come ordered newest first.
	transactionsResponse struct {
		Transactions []transactionResponse `json:"transactions"`
	}
)

// toTransaction converts a transactionResponse into a depositwatch.Transaction.
// Transactions without an inbound message (e.g. outgoing external messages)
// map to a zero-value, zero-sender transaction and are filtered downstream.
func (t transactionResponse) toTransaction() depositwatch.Transaction {
	tx := depositwatch.Transaction{
		Hash:    t.Hash,
		Success: t.Success,
	}

	if t.InMsg != nil {
		tx.Value = t.InMsg.Value
		if t.InMsg.Source != nil {
			tx.Sender = t.InMsg.Source.Address
		}
	}

	return tx
}

// toTransactions converts the response envelope preserving the indexer's
// newest-first ordering.
func (r transactionsResponse) toTransactions() []depositwatch.Transaction {
	transactions := make([]depositwatch.Transaction, len(r.Transactions))
	for i, t := range r.Transactions {
		transactions[i] = t.toTransaction()
	}

	return transactions
}
