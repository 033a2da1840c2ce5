// importctl imports one bank-export file from the command line: detect the
// format, normalize the rows, flag duplicates, and optionally write the
// accepted transactions to a CSV file.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"

	"github.com/FACorreiaa/statement-import/internal/domain/catalog"
	"github.com/FACorreiaa/statement-import/internal/domain/dedup"
	"github.com/FACorreiaa/statement-import/internal/domain/pipeline"
	"github.com/FACorreiaa/statement-import/pkg/config"
	"github.com/FACorreiaa/statement-import/pkg/money"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "importctl",
		Short: "Import bank statement exports into canonical transactions",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newFormatsCommand())

	return rootCmd
}

func newImportCommand() *cobra.Command {
	var (
		exportPath string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Run the import pipeline over one export file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			p := pipeline.New(cfg, catalog.Default(), logger, nil)
			progress := func(stage pipeline.Stage, percent float64) {
				logger.Debug("progress", "stage", string(stage), "percent", fmt.Sprintf("%.0f", percent))
			}

			result, err := p.Run(cmd.Context(), pipeline.Input{
				Content:      content,
				FilenameHint: args[0],
			}, dedup.NewMemorySource(), progress)
			if err != nil {
				return err
			}

			printSummary(cmd, result)

			if exportPath != "" {
				if err := exportAccepted(result, exportPath); err != nil {
					return fmt.Errorf("export accepted rows: %w", err)
				}
				cmd.Printf("wrote %d transactions to %s\n", len(result.Accepted), exportPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&exportPath, "export", "o", "", "write accepted transactions to this CSV file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log stage transitions and progress")
	return cmd
}

func newFormatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the registered bank formats",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tINSTITUTION\tCOUNTRY\tCURRENCY\tCONVENTION")
			for _, desc := range catalog.Default().All() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					desc.Key, desc.Institution, desc.Country, desc.Currency, desc.Convention)
			}
			return w.Flush()
		},
	}
}

func printSummary(cmd *cobra.Command, result *pipeline.Result) {
	cmd.Printf("format: %s (confidence %.2f)\n", result.DetectedFormat, result.Confidence)
	if result.Summary.LowConfidenceDetection {
		cmd.Println("warning: low-confidence detection, review the output")
	}
	cmd.Printf("rows: %d total, %d accepted, %d exact duplicates, %d probable duplicates, %d rejected\n",
		result.Summary.TotalRows,
		result.Summary.AcceptedCount,
		result.Summary.ExactDuplicates,
		len(result.Summary.ProbableDuplicates),
		len(result.Summary.RejectedRows),
	)
	for _, issue := range result.Summary.RejectedRows {
		cmd.Printf("  rejected line %d: %s\n", issue.Line, issue.Reason)
	}
	for _, item := range result.Summary.ProbableDuplicates {
		cmd.Printf("  review line %d: %s %s (similarity %.2f)\n",
			item.Tx.SourceLine, item.Tx.Date.Format("2006-01-02"), item.Tx.Merchant, item.Similarity)
	}
}

// exportRow is the CSV shape of one accepted transaction.
type exportRow struct {
	Date        string `csv:"date"`
	Amount      string `csv:"amount"`
	Currency    string `csv:"currency"`
	Description string `csv:"description"`
	Merchant    string `csv:"merchant"`
	Subtype     string `csv:"subtype"`
	SourceLine  int    `csv:"source_line"`
}

func exportAccepted(result *pipeline.Result, path string) error {
	rows := make([]exportRow, 0, len(result.Accepted))
	for _, tx := range result.Accepted {
		rows = append(rows, exportRow{
			Date:        tx.Date.Format("2006-01-02"),
			Amount:      money.New(tx.AmountMinor, tx.Currency).String(),
			Currency:    tx.Currency,
			Description: tx.RawDescription,
			Merchant:    tx.Merchant,
			Subtype:     tx.Subtype,
			SourceLine:  tx.SourceLine,
		})
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return gocsv.MarshalFile(&rows, f)
}
