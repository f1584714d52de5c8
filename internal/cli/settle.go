package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/payshare/backend/internal/calculator"
	"github.com/payshare/backend/pkg/logging"
)

// expenseFile is the settle input. Both a document with an expenses key and
// a bare list of expenses are accepted; JSON is valid YAML, so JSON files
// work as well.
type expenseFile struct {
	Expenses []calculator.ExpenseRecord `yaml:"expenses"`
}

type settlementRow struct {
	From   string `csv:"from"`
	To     string `csv:"to"`
	Amount string `csv:"amount"`
}

func newSettleCmd(root *rootFlags) *cobra.Command {
	var (
		file   string
		format string
	)

	cmd := &cobra.Command{
		Use:   "settle",
		Short: "Compute balances, fairness and a settlement plan from an expense file",
		Example: `  payshare settle --file trip.yaml
  payshare settle --file trip.json --format csv > plan.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, root, nil)
			if err != nil {
				return err
			}
			logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return err
			}

			records, err := readExpenses(file)
			if err != nil {
				return err
			}
			logger.Debug("Expenses loaded", "file", file, "count", len(records))

			summary := calculator.Summarize(records)
			return writeSummary(cmd.OutOrStdout(), format, summary)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML or JSON file of expenses (required)")
	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json or csv")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func readExpenses(path string) ([]calculator.ExpenseRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read expenses: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind == yaml.SequenceNode {
		var records []calculator.ExpenseRecord
		if err := root.Decode(&records); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
		return records, nil
	}

	var file expenseFile
	if err := root.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return file.Expenses, nil
}

func writeSummary(w io.Writer, format string, summary calculator.Summary) error {
	switch format {
	case "text":
		return writeText(w, summary)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	case "csv":
		rows := make([]*settlementRow, len(summary.Settlements))
		for i, s := range summary.Settlements {
			rows[i] = &settlementRow{From: s.From, To: s.To, Amount: s.Amount.String()}
		}
		return gocsv.Marshal(rows, w)
	default:
		return errors.New("unknown format " + format + " (want text, json or csv)")
	}
}

func writeText(w io.Writer, summary calculator.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprintln(tw, "Balances")
	for name, amount := range summary.Balances.All() {
		fmt.Fprintf(tw, "  %s\t%s\t\n", name, amount)
	}
	if summary.Balances.Len() == 0 {
		fmt.Fprintln(tw, "  (none)")
	}

	fmt.Fprintf(tw, "\nFairness score: %d/%d\n\nSettlements\n", summary.Score, calculator.PerfectScore)
	for _, s := range summary.Settlements {
		fmt.Fprintf(tw, "  %s -> %s\t%s\t\n", s.From, s.To, s.Amount)
	}
	if len(summary.Settlements) == 0 {
		fmt.Fprintln(tw, "  (all settled)")
	}

	return tw.Flush()
}
