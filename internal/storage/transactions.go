package storage

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/debray/finkeep/internal/common"
	"github.com/debray/finkeep/internal/model"
)

const dateLayout = "2006-01-02"

// TransactionFilter defines filtering options for transaction queries.
// Zero-valued criteria match everything; supplied criteria combine with AND.
// Date bounds are inclusive and compared as ISO-8601 strings.
type TransactionFilter struct {
	Kind     model.TransactionKind
	Category string
	DateFrom string
	DateTo   string
}

// SortField selects the key for advanced search ordering.
type SortField string

// Sort fields.
const (
	SortByDate     SortField = "date"
	SortByAmount   SortField = "amount"
	SortByCategory SortField = "category"
)

// SortOrder selects ascending or descending order.
type SortOrder string

// Sort orders.
const (
	Ascending  SortOrder = "ascending"
	Descending SortOrder = "descending"
)

// SearchOptions drives AdvancedSearch. AmountFrom/AmountTo are optional
// inclusive bounds; the keyword matches any transaction field, like Search.
type SearchOptions struct {
	Keyword    string
	DateFrom   string
	DateTo     string
	AmountFrom *float64
	AmountTo   *float64
	SortBy     SortField
	Order      SortOrder
}

// Summary holds the single-pass aggregate over all transactions.
type Summary struct {
	TotalIncome       float64
	TotalExpense      float64
	Balance           float64
	IncomeByCategory  map[string]float64
	ExpenseByCategory map[string]float64
}

// AddTransaction validates t, assigns it a stable identifier, appends it to
// the ordered sequence, and persists. The returned transaction carries the
// assigned ID.
func (s *Store) AddTransaction(t model.Transaction) (model.Transaction, error) {
	if err := validateTransaction(t); err != nil {
		return model.Transaction{}, err
	}

	t.ID = model.NewID()
	s.transactions = append(s.transactions, t)
	if err := s.persist(); err != nil {
		s.transactions = s.transactions[:len(s.transactions)-1]
		return model.Transaction{}, err
	}
	return t, nil
}

// UpdateTransaction replaces every field of the transaction with the given
// ID, keeping the ID and the position in the sequence. Unknown IDs return
// ErrNotFound and leave the sequence unchanged.
func (s *Store) UpdateTransaction(id string, t model.Transaction) error {
	if err := validateTransaction(t); err != nil {
		return err
	}

	for i := range s.transactions {
		if s.transactions[i].ID != id {
			continue
		}
		prev := s.transactions[i]
		t.ID = id
		s.transactions[i] = t
		if err := s.persist(); err != nil {
			s.transactions[i] = prev
			return err
		}
		return nil
	}
	return fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
}

// DeleteTransaction removes the transaction with the given ID. Unknown IDs
// return ErrNotFound and leave the sequence unchanged.
func (s *Store) DeleteTransaction(id string) error {
	for i := range s.transactions {
		if s.transactions[i].ID != id {
			continue
		}
		prev := s.transactions
		s.transactions = append(append([]model.Transaction{}, prev[:i]...), prev[i+1:]...)
		if err := s.persist(); err != nil {
			s.transactions = prev
			return err
		}
		return nil
	}
	return fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
}

// Transactions returns a copy of the ordered transaction sequence.
func (s *Store) Transactions() []model.Transaction {
	out := make([]model.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// Filter returns the transactions satisfying every supplied criterion.
func (s *Store) Filter(f TransactionFilter) []model.Transaction {
	var out []model.Transaction
	for _, t := range s.transactions {
		if f.Kind != "" && t.Kind != f.Kind {
			continue
		}
		if f.Category != "" && t.Category != f.Category {
			continue
		}
		if f.DateFrom != "" && t.Date < f.DateFrom {
			continue
		}
		if f.DateTo != "" && t.Date > f.DateTo {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Search returns transactions whose description, category, date, or decimal
// amount contains keyword, case-insensitively. An empty keyword matches all.
func (s *Store) Search(keyword string) []model.Transaction {
	keyword = strings.ToLower(keyword)
	var out []model.Transaction
	for _, t := range s.transactions {
		if matchesKeyword(t, keyword) {
			out = append(out, t)
		}
	}
	return out
}

// AdvancedSearch combines keyword matching, date range, and amount range,
// then orders the result with a stable sort; ties keep their prior relative
// order.
func (s *Store) AdvancedSearch(opts SearchOptions) []model.Transaction {
	keyword := strings.ToLower(opts.Keyword)
	var out []model.Transaction
	for _, t := range s.transactions {
		if !matchesKeyword(t, keyword) {
			continue
		}
		if opts.DateFrom != "" && t.Date < opts.DateFrom {
			continue
		}
		if opts.DateTo != "" && t.Date > opts.DateTo {
			continue
		}
		if opts.AmountFrom != nil && t.Amount < *opts.AmountFrom {
			continue
		}
		if opts.AmountTo != nil && t.Amount > *opts.AmountTo {
			continue
		}
		out = append(out, t)
	}

	desc := opts.Order == Descending
	switch opts.SortBy {
	case SortByDate:
		sort.SliceStable(out, func(i, j int) bool {
			if desc {
				return out[i].Date > out[j].Date
			}
			return out[i].Date < out[j].Date
		})
	case SortByAmount:
		sort.SliceStable(out, func(i, j int) bool {
			if desc {
				return out[i].Amount > out[j].Amount
			}
			return out[i].Amount < out[j].Amount
		})
	case SortByCategory:
		sort.SliceStable(out, func(i, j int) bool {
			if desc {
				return out[i].Category > out[j].Category
			}
			return out[i].Category < out[j].Category
		})
	}
	return out
}

// Aggregate computes totals and per-category sums in a single pass.
func (s *Store) Aggregate() Summary {
	summary := Summary{
		IncomeByCategory:  make(map[string]float64),
		ExpenseByCategory: make(map[string]float64),
	}
	for _, t := range s.transactions {
		switch t.Kind {
		case model.KindIncome:
			summary.TotalIncome += t.Amount
			summary.IncomeByCategory[t.Category] += t.Amount
		case model.KindExpense:
			summary.TotalExpense += t.Amount
			summary.ExpenseByCategory[t.Category] += t.Amount
		}
	}
	summary.Balance = summary.TotalIncome - summary.TotalExpense
	return summary
}

func matchesKeyword(t model.Transaction, keyword string) bool {
	if keyword == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Description), keyword) ||
		strings.Contains(strings.ToLower(t.Category), keyword) ||
		strings.Contains(t.Date, keyword) ||
		strings.Contains(formatAmount(t.Amount), keyword)
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

func validateTransaction(t model.Transaction) error {
	if t.Amount < 0 || math.IsNaN(t.Amount) || math.IsInf(t.Amount, 0) {
		return fmt.Errorf("amount must be a non-negative number: %w", common.ErrInvalidAmount)
	}
	if _, err := time.Parse(dateLayout, t.Date); err != nil {
		return fmt.Errorf("date must be YYYY-MM-DD: %w", common.ErrInvalidDate)
	}
	if !model.ValidKind(t.Kind) {
		return fmt.Errorf("kind must be Income or Expense: %w", common.ErrInvalidFormat)
	}
	if !model.ValidCategory(t.Kind, t.Category) {
		return fmt.Errorf("category %q is not valid for %s: %w", t.Category, t.Kind, common.ErrUnknownCategory)
	}
	return nil
}
