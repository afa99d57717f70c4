package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/debray/finkeep/internal/cli"
	"github.com/debray/finkeep/internal/model"
	"github.com/debray/finkeep/internal/storage"
)

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Manage financial transactions",
		Long:  `Add, edit, delete, filter, and search income and expense entries.`,
	}

	cmd.AddCommand(txAddCmd())
	cmd.AddCommand(txEditCmd())
	cmd.AddCommand(txDeleteCmd())
	cmd.AddCommand(txListCmd())
	cmd.AddCommand(txSearchCmd())
	cmd.AddCommand(txReportCmd())

	return cmd
}

// transactionFlags binds the shared add/edit field flags.
func transactionFlags(cmd *cobra.Command, t *model.Transaction) {
	cmd.Flags().StringVar((*string)(&t.Kind), "type", "", "Income or Expense")
	cmd.Flags().StringVar(&t.Category, "category", "", "category for the type")
	cmd.Flags().StringVar(&t.Date, "date", "", "date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&t.Amount, "amount", 0, "non-negative amount")
	cmd.Flags().StringVar(&t.Description, "description", "", "free-text description")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("amount")
}

func txAddCmd() *cobra.Command {
	var t model.Transaction

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a transaction",
		RunE: func(_ *cobra.Command, _ []string) error {
			store, err := openLedger()
			if err != nil {
				return err
			}

			saved, err := store.AddTransaction(t)
			if err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess("Transaction saved: " + saved.ID))
			return nil
		},
	}

	transactionFlags(cmd, &t)
	return cmd
}

func txEditCmd() *cobra.Command {
	var t model.Transaction

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Replace a transaction's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			store, err := openLedger()
			if err != nil {
				return err
			}

			if err := store.UpdateTransaction(args[0], t); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess("Transaction updated successfully."))
			return nil
		},
	}

	transactionFlags(cmd, &t)
	return cmd
}

func txDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			store, err := openLedger()
			if err != nil {
				return err
			}

			if err := store.DeleteTransaction(args[0]); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess("Transaction deleted."))
			return nil
		},
	}
}

func txListCmd() *cobra.Command {
	var (
		kind     string
		category string
		from     string
		to       string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, optionally filtered",
		RunE: func(_ *cobra.Command, _ []string) error {
			store, err := openLedger()
			if err != nil {
				return err
			}

			transactions := store.Filter(storage.TransactionFilter{
				Kind:     model.TransactionKind(kind),
				Category: category,
				DateFrom: from,
				DateTo:   to,
			})
			renderTransactions(transactions)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "type", "", "filter by Income or Expense")
	cmd.Flags().StringVar(&category, "category", "", "filter by category")
	cmd.Flags().StringVar(&from, "from", "", "inclusive start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "inclusive end date (YYYY-MM-DD)")

	return cmd
}

func txSearchCmd() *cobra.Command {
	var (
		from       string
		to         string
		amountFrom float64
		amountTo   float64
		sortBy     string
		order      string
	)

	cmd := &cobra.Command{
		Use:   "search [keyword]",
		Short: "Search transactions by keyword, date range, and amount range",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openLedger()
			if err != nil {
				return err
			}

			var keyword string
			if len(args) > 0 {
				keyword = args[0]
			}

			opts := storage.SearchOptions{
				Keyword:  keyword,
				DateFrom: from,
				DateTo:   to,
				SortBy:   storage.SortField(strings.ToLower(sortBy)),
				Order:    storage.SortOrder(strings.ToLower(order)),
			}
			if cmd.Flags().Changed("amount-from") {
				opts.AmountFrom = &amountFrom
			}
			if cmd.Flags().Changed("amount-to") {
				opts.AmountTo = &amountTo
			}

			renderTransactions(store.AdvancedSearch(opts))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "inclusive start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "inclusive end date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&amountFrom, "amount-from", 0, "minimum amount")
	cmd.Flags().Float64Var(&amountTo, "amount-to", 0, "maximum amount")
	cmd.Flags().StringVar(&sortBy, "sort", "date", "sort by date, amount, or category")
	cmd.Flags().StringVar(&order, "order", "ascending", "ascending or descending")

	return cmd
}

func txReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Show income/expense totals and per-category sums",
		RunE: func(_ *cobra.Command, _ []string) error {
			store, err := openLedger()
			if err != nil {
				return err
			}

			summary := store.Aggregate()
			fmt.Println(cli.FormatTitle("Summary"))
			fmt.Printf("Total Income:  %s\n", cli.IncomeStyle.Render(formatMoney(summary.TotalIncome)))
			fmt.Printf("Total Expense: %s\n", cli.ExpenseStyle.Render(formatMoney(summary.TotalExpense)))
			fmt.Printf("Balance:       %s\n", formatMoney(summary.Balance))

			renderCategorySums("Income by category", summary.IncomeByCategory)
			renderCategorySums("Expense by category", summary.ExpenseByCategory)
			return nil
		},
	}
}

func renderTransactions(transactions []model.Transaction) {
	if len(transactions) == 0 {
		fmt.Println(cli.InfoStyle.Render("No transactions found."))
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
		cli.HeaderStyle.Render("Date"),
		cli.HeaderStyle.Render("Type"),
		cli.HeaderStyle.Render("Category"),
		cli.HeaderStyle.Render("Amount"),
		cli.HeaderStyle.Render("Description"),
		cli.HeaderStyle.Render("ID"))

	for _, t := range transactions {
		amount := formatMoney(t.Amount)
		if t.Kind == model.KindExpense {
			amount = cli.ExpenseStyle.Render(amount)
		} else {
			amount = cli.IncomeStyle.Render(amount)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			t.Date, t.Kind, t.Category, amount, t.Description, cli.SubtleStyle.Render(t.ID))
	}
}

func renderCategorySums(title string, sums map[string]float64) {
	if len(sums) == 0 {
		return
	}
	fmt.Println()
	fmt.Println(cli.FormatTitle(title))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer func() { _ = w.Flush() }()
	for _, category := range sortedKeys(sums) {
		fmt.Fprintf(w, "%s\t%s\n", category, formatMoney(sums[category]))
	}
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatMoney(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
