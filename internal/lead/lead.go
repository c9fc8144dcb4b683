// Package lead holds the lead record exchanged with the capture API, the form a
// user fills in, and the pure transforms the page applies before rendering.
package lead

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ID is the backend-assigned identifier. The API sends it as a JSON number but
// the client treats it as opaque text.
type ID string

// UnmarshalJSON accepts a JSON number, a JSON string or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("lead id: %w", err)
		}
		*id = ID(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("lead id: %w", err)
		}
		*id = ID(n.String())
	}
	return nil
}

// Lead is a captured contact as returned by GET /leads.
type Lead struct {
	ID           ID     `json:"id"`
	Nome         string `json:"nome"`
	Email        string `json:"email"`
	Telefone     string `json:"telefone"` // null on the wire decodes to ""
	DataCadastro string `json:"data_cadastro"`
}

// Form is the body of POST /lead, and the values typed into the capture form.
type Form struct {
	Nome     string `json:"nome"`
	Email    string `json:"email"`
	Telefone string `json:"telefone"`
}

// Trimmed returns a copy with leading and trailing whitespace removed.
func (f Form) Trimmed() Form {
	return Form{
		Nome:     strings.TrimSpace(f.Nome),
		Email:    strings.TrimSpace(f.Email),
		Telefone: strings.TrimSpace(f.Telefone),
	}
}

// Validate reports every blank field. It performs no format checks; the API
// owns those.
func (f Form) Validate() error {
	var missing []string
	if f.Nome == "" {
		missing = append(missing, "nome")
	}
	if f.Email == "" {
		missing = append(missing, "email")
	}
	if f.Telefone == "" {
		missing = append(missing, "telefone")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// ValidationError is returned when required form fields are blank.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}
