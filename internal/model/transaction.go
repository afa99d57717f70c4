package model

import "github.com/google/uuid"

// TransactionKind distinguishes money coming in from money going out.
type TransactionKind string

const (
	// KindIncome marks a transaction that adds to the balance.
	KindIncome TransactionKind = "Income"
	// KindExpense marks a transaction that subtracts from the balance.
	KindExpense TransactionKind = "Expense"
)

// Transaction is a single income or expense ledger entry.
//
// Date is an ISO-8601 calendar date (YYYY-MM-DD); lexicographic comparison
// of two dates equals chronological comparison, and all range checks in the
// store rely on that.
type Transaction struct {
	ID          string          `json:"id"`
	Kind        TransactionKind `json:"type"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
	Amount      float64         `json:"amount"`
	Description string          `json:"description"`
}

// NewID returns a fresh stable identifier for a transaction or document.
// Entries are identified by ID, never by position, so references held by a
// caller stay valid across edits and deletes of other entries.
func NewID() string {
	return uuid.NewString()
}
