package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"leadcap/cmd/leadcap/ui"
	"leadcap/internal/lead"
	"leadcap/internal/page"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var importConcurrency int

// importCmd submits leads from a CSV file
var importCmd = &cobra.Command{
	Use:   "import FILE.csv",
	Short: "Submit leads from a CSV file",
	Long: `Reads rows of nome,email,telefone (an optional header row is skipped)
and submits each one as if it had been typed into the page. Rows that fail
validation or are rejected by the API are reported and skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().IntVarP(&importConcurrency, "concurrency", "n", 4, "Maximum submissions in flight")
}

// csvRecord is one data row and its 1-based line number.
type csvRecord struct {
	line int
	form lead.Form
}

// importSummary counts import outcomes.
type importSummary struct {
	Saved    int
	Invalid  int
	Rejected int
}

func runImport(cmd *cobra.Command, args []string) error {
	if importConcurrency < 1 {
		return fmt.Errorf("--concurrency must be at least 1")
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	defer f.Close()

	records, err := readLeadCSV(f)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	st := styles()
	view := ui.NewConsoleView(io.Discard, messages(), st, true)
	ctrl, err := newController(view)
	if err != nil {
		return err
	}

	summary, err := importLeads(cmd, ctrl, records, importConcurrency)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d saved, %d invalid, %d rejected\n", summary.Saved, summary.Invalid, summary.Rejected)
	if counter := view.Snapshot().Counter; counter != "" {
		fmt.Fprintln(out, st.Counter.Render(counter))
	}
	if summary.Invalid+summary.Rejected > 0 {
		return fmt.Errorf("%d of %d rows were not saved", summary.Invalid+summary.Rejected, len(records))
	}
	return nil
}

// readLeadCSV parses nome,email,telefone rows. A first row whose first cell
// is "nome" is treated as a header.
func readLeadCSV(r io.Reader) ([]csvRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var records []csvRecord
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		if len(records) == 0 && line == 1 && len(fields) > 0 && strings.EqualFold(strings.TrimSpace(fields[0]), "nome") {
			continue
		}

		for len(fields) < 3 {
			fields = append(fields, "")
		}
		records = append(records, csvRecord{
			line: line,
			form: lead.Form{
				Nome:     fields[0],
				Email:    fields[1],
				Telefone: lead.FormatPhoneMask(fields[2]),
			},
		})
	}
	return records, nil
}

// importLeads submits every record through the controller with at most limit
// submissions in flight. Per-row failures are counted and printed, not returned.
func importLeads(cmd *cobra.Command, ctrl *page.Controller, records []csvRecord, limit int) (importSummary, error) {
	var (
		mu      sync.Mutex
		summary importSummary
	)
	errOut := cmd.ErrOrStderr()

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(limit)
	for _, rec := range records {
		rec := rec // per-iteration copy (pre-Go 1.22 loop semantics)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := ctrl.SubmitLead(ctx, rec.form)

			mu.Lock()
			defer mu.Unlock()
			var verr *lead.ValidationError
			switch {
			case err == nil:
				summary.Saved++
			case errors.As(err, &verr):
				summary.Invalid++
				fmt.Fprintf(errOut, "line %d: %v\n", rec.line, err)
			default:
				summary.Rejected++
				fmt.Fprintf(errOut, "line %d: %v\n", rec.line, err)
				logger.Warn("import row rejected", zap.Int("line", rec.line), zap.Error(err))
			}
			return nil
		})
	}
	err := g.Wait()
	return summary, err
}
