package model

// Transaction categories are fixed per kind; a transaction is only valid if
// its category appears in the list for its kind.
var transactionCategories = map[TransactionKind][]string{
	KindIncome:  {"Salary", "Bonus", "Gift", "Investment", "Other"},
	KindExpense: {"Food", "Transport", "Housing", "Entertainment", "Healthcare", "Education", "Shopping", "Other"},
}

// CategoriesFor returns the fixed category list for the given kind.
func CategoriesFor(kind TransactionKind) []string {
	cats := transactionCategories[kind]
	out := make([]string, len(cats))
	copy(out, cats)
	return out
}

// ValidKind reports whether kind is one of the two transaction kinds.
func ValidKind(kind TransactionKind) bool {
	return kind == KindIncome || kind == KindExpense
}

// ValidCategory reports whether category is allowed for the given kind.
func ValidCategory(kind TransactionKind, category string) bool {
	for _, c := range transactionCategories[kind] {
		if c == category {
			return true
		}
	}
	return false
}
