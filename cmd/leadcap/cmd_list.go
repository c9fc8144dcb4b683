package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"leadcap/cmd/leadcap/ui"
	"leadcap/internal/lead"
	"leadcap/internal/page"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var (
	listFormat string
	listWide   bool
)

// listCmd prints the lead table
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List captured leads",
	Long: `Fetches GET /leads and prints the lead table.

Formats:
  table     aligned columns (default)
  json      the leads as a JSON array
  markdown  a rendered markdown table`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listFormat, "format", "f", "table", "Output format: table, json, markdown")
	listCmd.Flags().BoolVar(&listWide, "wide", false, "Include id and registration date columns")
}

func runList(cmd *cobra.Command, args []string) error {
	switch listFormat {
	case "table", "json", "markdown":
	default:
		return fmt.Errorf("unknown format %q (valid: table, json, markdown)", listFormat)
	}

	st := styles()
	view := ui.NewConsoleView(cmd.ErrOrStderr(), messages(), st, listFormat != "table")
	ctrl, err := newController(view)
	if err != nil {
		return err
	}
	if err := ctrl.LoadLeads(cmd.Context()); err != nil {
		return shownError{err}
	}

	out := cmd.OutOrStdout()
	msgs := ctrl.Messages()
	leads := ctrl.Leads()
	switch listFormat {
	case "json":
		return writeJSON(out, leads)
	case "markdown":
		md, err := renderMarkdown(msgs, leads, st.Theme.IsDark)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(out, md)
		return err
	}

	snap := view.Snapshot()
	table := ui.LeadTable(msgs.ListTitle, msgs, snap.Rows)
	if listWide {
		table = wideTable(msgs, leads)
	}
	fmt.Fprint(out, table.View(st))
	fmt.Fprintln(out, st.Counter.Render(snap.Counter))
	return nil
}

func writeJSON(w io.Writer, leads []lead.Lead) error {
	if leads == nil {
		leads = []lead.Lead{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(leads)
}

func wideHeaders(msgs page.Messages) []string {
	return []string{msgs.HeaderIndex, "id", msgs.HeaderNome, msgs.HeaderEmail, msgs.HeaderTelefone, "data_cadastro"}
}

func wideTable(msgs page.Messages, leads []lead.Lead) *ui.SimpleTable {
	t := ui.NewSimpleTable(msgs.ListTitle, wideHeaders(msgs))
	if len(leads) == 0 {
		t.AddSpanningRow(msgs.EmptyTable)
		return t
	}
	for i, l := range leads {
		t.AddRow(strconv.Itoa(i+1), string(l.ID), l.Nome, l.Email, l.Telefone, l.DataCadastro)
	}
	return t
}

// leadsMarkdown renders the lead table as a markdown document.
func leadsMarkdown(msgs page.Messages, leads []lead.Lead, wide bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", msgs.ListTitle)
	if len(leads) == 0 {
		fmt.Fprintf(&sb, "_%s_\n", msgs.EmptyTable)
		return sb.String()
	}

	headers := msgs.Headers()
	if wide {
		headers = wideHeaders(msgs)
	}
	sb.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	sb.WriteString("|" + strings.Repeat(" --- |", len(headers)) + "\n")
	for i, l := range leads {
		cells := []string{strconv.Itoa(i + 1), l.Nome, l.Email, l.Telefone}
		if wide {
			cells = []string{strconv.Itoa(i + 1), string(l.ID), l.Nome, l.Email, l.Telefone, l.DataCadastro}
		}
		for j, c := range cells {
			cells[j] = strings.ReplaceAll(c, "|", `\|`)
		}
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	fmt.Fprintf(&sb, "\n%s\n", msgs.Counter(len(leads)))
	return sb.String()
}

func renderMarkdown(msgs page.Messages, leads []lead.Lead, dark bool) (string, error) {
	style := "light"
	if dark {
		style = "dark"
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return renderer.Render(leadsMarkdown(msgs, leads, listWide))
}
