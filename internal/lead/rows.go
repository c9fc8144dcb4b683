package lead

import "strconv"

// Columns is the number of table columns: index, nome, email, telefone.
const Columns = 4

// Row is the view-model for one table row. A placeholder row carries Text and
// spans all columns.
type Row struct {
	Index       string
	Nome        string
	Email       string
	Telefone    string
	Placeholder bool
	Text        string
}

// Cells returns the row as Columns strings. A placeholder puts its text in the
// first cell.
func (r Row) Cells() []string {
	if r.Placeholder {
		return []string{r.Text, "", "", ""}
	}
	return []string{r.Index, r.Nome, r.Email, r.Telefone}
}

// BuildRows maps leads to table rows numbered from 1. Nil or empty input
// yields a single placeholder row reading emptyText.
func BuildRows(leads []Lead, emptyText string) []Row {
	if len(leads) == 0 {
		return []Row{{Placeholder: true, Text: emptyText}}
	}

	rows := make([]Row, 0, len(leads))
	for i, l := range leads {
		rows = append(rows, Row{
			Index:    strconv.Itoa(i + 1),
			Nome:     l.Nome,
			Email:    l.Email,
			Telefone: l.Telefone,
		})
	}
	return rows
}
