package page

import "fmt"

// Messages is the catalog of user-facing text for one language.
type Messages struct {
	PageTitle string
	ListTitle string
	KeyHelp   string

	// Table
	HeaderIndex    string
	HeaderNome     string
	HeaderEmail    string
	HeaderTelefone string
	EmptyTable     string
	CounterNone    string
	CounterOne     string
	CounterMany    string // fmt verb %d

	// Controls
	RefreshIdle string
	RefreshBusy string
	SaveIdle    string
	SaveBusy    string

	// Status region
	Loading        string
	FillAllFields  string
	Saved          string
	LoadStatus     string // fmt verb %d
	SaveStatus     string // fmt verb %d
	LoadFailed     string
	SaveFailed     string
	NetworkFailure string
}

var catalogs = map[string]Messages{
	"pt-BR": {
		PageTitle: "Cadastro de Leads",
		ListTitle: "Leads cadastrados",
		KeyHelp:   "tab: próximo campo • ctrl+s: salvar • ctrl+r: atualizar • esc: sair",

		HeaderIndex:    "#",
		HeaderNome:     "Nome",
		HeaderEmail:    "Email",
		HeaderTelefone: "Telefone",
		EmptyTable:     "Nenhum lead cadastrado ainda.",
		CounterNone:    "Nenhum lead cadastrado",
		CounterOne:     "1 lead",
		CounterMany:    "%d leads",

		RefreshIdle: "Atualizar lista",
		RefreshBusy: "Atualizando...",
		SaveIdle:    "Salvar lead",
		SaveBusy:    "Salvando...",

		Loading:        "Carregando leads...",
		FillAllFields:  "Preencha todos os campos.",
		Saved:          "Lead salvo com sucesso!",
		LoadStatus:     "Erro ao buscar leads (status %d)",
		SaveStatus:     "Erro ao salvar lead (status %d)",
		LoadFailed:     "Erro ao carregar leads",
		SaveFailed:     "Erro ao salvar lead",
		NetworkFailure: "Não foi possível conectar à API de leads",
	},
	"en": {
		PageTitle: "Lead Capture",
		ListTitle: "Captured leads",
		KeyHelp:   "tab: next field • ctrl+s: save • ctrl+r: refresh • esc: quit",

		HeaderIndex:    "#",
		HeaderNome:     "Name",
		HeaderEmail:    "Email",
		HeaderTelefone: "Phone",
		EmptyTable:     "No leads registered yet.",
		CounterNone:    "No leads registered",
		CounterOne:     "1 lead",
		CounterMany:    "%d leads",

		RefreshIdle: "Refresh list",
		RefreshBusy: "Refreshing...",
		SaveIdle:    "Save lead",
		SaveBusy:    "Saving...",

		Loading:        "Loading leads...",
		FillAllFields:  "Please fill in all fields.",
		Saved:          "Lead saved!",
		LoadStatus:     "Failed to fetch leads (status %d)",
		SaveStatus:     "Failed to save lead (status %d)",
		LoadFailed:     "Failed to load leads",
		SaveFailed:     "Failed to save lead",
		NetworkFailure: "Could not reach the lead API",
	},
}

// DefaultLanguage is used for unknown language tags.
const DefaultLanguage = "pt-BR"

// Catalog returns the messages for lang, falling back to DefaultLanguage.
func Catalog(lang string) Messages {
	if m, ok := catalogs[lang]; ok {
		return m
	}
	return catalogs[DefaultLanguage]
}

// Counter returns the lead counter text for n leads.
func (m Messages) Counter(n int) string {
	switch n {
	case 0:
		return m.CounterNone
	case 1:
		return m.CounterOne
	default:
		return fmt.Sprintf(m.CounterMany, n)
	}
}

// Headers returns the table column headers.
func (m Messages) Headers() []string {
	return []string{m.HeaderIndex, m.HeaderNome, m.HeaderEmail, m.HeaderTelefone}
}
