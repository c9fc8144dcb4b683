package ui

import (
	"context"
	"strings"

	"leadcap/internal/lead"
	"leadcap/internal/page"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Focus order: the three fields, then Save, then Refresh.
const (
	focusNome = iota
	focusEmail
	focusTelefone
	focusSave
	focusRefresh
	focusCount
)

const (
	defaultDividerWidth = 60
	maxDividerWidth     = 100
)

type (
	stateChangedMsg struct{}
	loadDoneMsg     struct{ err error }
	submitDoneMsg   struct{ err error }
)

// LeadPageModel is the interactive terminal page: the form, the status
// region and the lead table, all driven by a page.Controller.
type LeadPageModel struct {
	ctx     context.Context
	ctrl    *page.Controller
	state   *page.State
	changes chan struct{}
	msgs    page.Messages
	styles  Styles

	inputs  []textinput.Model
	labels  []string
	focus   int
	spinner spinner.Model
	width   int

	snap    page.Snapshot
	formGen uint64
	saving  bool
	loading int
}

// NewLeadPageModel builds the page. state must be the View ctrl renders to.
func NewLeadPageModel(ctx context.Context, ctrl *page.Controller, state *page.State, styles Styles) LeadPageModel {
	msgs := ctrl.Messages()

	labels := []string{msgs.HeaderNome, msgs.HeaderEmail, msgs.HeaderTelefone}
	inputs := make([]textinput.Model, len(labels))
	for i, label := range labels {
		ti := textinput.New()
		ti.Placeholder = label
		ti.Prompt = "│ "
		// Telefone is masked after every edit, so only runaway pastes hit this.
		ti.CharLimit = 120
		ti.Width = 40
		ti.TextStyle = styles.Body
		inputs[i] = ti
	}
	inputs[focusTelefone].Placeholder = "(11) 98765-4321"
	inputs[focusNome].Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	// Buffered so a burst of view updates coalesces into one repaint.
	changes := make(chan struct{}, 1)
	state.OnChange(func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	})

	return LeadPageModel{
		ctx:     ctx,
		ctrl:    ctrl,
		state:   state,
		changes: changes,
		msgs:    msgs,
		styles:  styles,
		inputs:  inputs,
		labels:  labels,
		spinner: sp,
		snap:    state.Snapshot(),
	}
}

// Init starts the first load.
func (m LeadPageModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		m.waitForChange(),
		m.loadCmd(),
	)
}

func (m LeadPageModel) waitForChange() tea.Cmd {
	ch := m.changes
	ctx := m.ctx
	return func() tea.Msg {
		select {
		case <-ch:
			return stateChangedMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m LeadPageModel) loadCmd() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return loadDoneMsg{err: ctrl.LoadLeads(ctx)}
	}
}

func (m LeadPageModel) submitCmd(form lead.Form) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return submitDoneMsg{err: ctrl.SubmitLead(ctx, form)}
	}
}

// Form returns the current field values.
func (m LeadPageModel) Form() lead.Form {
	return lead.Form{
		Nome:     m.inputs[focusNome].Value(),
		Email:    m.inputs[focusEmail].Value(),
		Telefone: m.inputs[focusTelefone].Value(),
	}
}

// Focus returns the index of the focused element.
func (m LeadPageModel) Focus() int {
	return m.focus
}

// Update handles messages.
func (m LeadPageModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case stateChangedMsg:
		m.sync()
		return m, m.waitForChange()

	case loadDoneMsg:
		if m.loading > 0 {
			m.loading--
		}
		m.sync()
		return m, nil

	case submitDoneMsg:
		m.saving = false
		m.sync()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateFocusedInput(msg)
}

func (m LeadPageModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit

	case tea.KeyTab, tea.KeyDown:
		m.setFocus((m.focus + 1) % focusCount)
		return m, nil

	case tea.KeyShiftTab, tea.KeyUp:
		m.setFocus((m.focus + focusCount - 1) % focusCount)
		return m, nil

	case tea.KeyCtrlS:
		return m.submit()

	case tea.KeyCtrlR:
		return m.reload()

	case tea.KeyEnter:
		switch m.focus {
		case focusNome, focusEmail:
			m.setFocus(m.focus + 1)
			return m, nil
		case focusTelefone, focusSave:
			return m.submit()
		case focusRefresh:
			return m.reload()
		}
	}

	return m.updateFocusedInput(msg)
}

func (m LeadPageModel) updateFocusedInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.focus >= len(m.inputs) {
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if m.focus == focusTelefone {
		masked := lead.FormatPhoneMask(m.inputs[focusTelefone].Value())
		if masked != m.inputs[focusTelefone].Value() {
			m.inputs[focusTelefone].SetValue(masked)
			m.inputs[focusTelefone].CursorEnd()
		}
	}
	return m, cmd
}

func (m LeadPageModel) submit() (tea.Model, tea.Cmd) {
	if m.saving || !m.snap.Save.Enabled {
		return m, nil
	}
	m.saving = true
	// A submit that passes validation reloads the list once on success.
	return m, m.submitCmd(m.Form())
}

func (m LeadPageModel) reload() (tea.Model, tea.Cmd) {
	if m.loading > 0 || !m.snap.Refresh.Enabled {
		return m, nil
	}
	m.loading++
	return m, m.loadCmd()
}

func (m *LeadPageModel) setFocus(i int) {
	m.focus = i
	for j := range m.inputs {
		if j == i {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
}

// sync copies the controller's view state into the model and clears the
// form when the controller asked for a reset.
func (m *LeadPageModel) sync() {
	m.snap = m.state.Snapshot()
	if m.snap.FormGeneration != m.formGen {
		m.formGen = m.snap.FormGeneration
		for i := range m.inputs {
			m.inputs[i].Reset()
		}
		m.setFocus(focusNome)
	}
}

// View renders the page.
func (m LeadPageModel) View() string {
	var sb strings.Builder
	s := m.styles

	sb.WriteString(s.Title.Render(m.msgs.PageTitle))
	sb.WriteString("\n")

	for i, in := range m.inputs {
		label := s.Label
		if i == m.focus {
			label = s.FocusedLabel
		}
		sb.WriteString(label.Render(m.labels[i]))
		sb.WriteString(in.View())
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Center,
		m.button(m.snap.Save, m.focus == focusSave),
		" ",
		m.button(m.snap.Refresh, m.focus == focusRefresh),
	))
	if m.snap.Busy() {
		sb.WriteString(" " + m.spinner.View())
	}
	sb.WriteString("\n")

	if m.snap.StatusVisible() {
		sb.WriteString(s.Status(m.snap.Status, m.snap.Kind))
		sb.WriteString("\n")
	}
	sb.WriteString(s.RenderDivider(m.dividerWidth()))
	sb.WriteString("\n")

	sb.WriteString(s.Bold.Render(m.msgs.ListTitle))
	sb.WriteString("  ")
	sb.WriteString(s.Counter.Render(m.snap.Counter))
	sb.WriteString("\n")
	if m.snap.Rows != nil {
		sb.WriteString(LeadTable("", m.msgs, m.snap.Rows).View(s))
	}

	sb.WriteString(s.Footer.Render(m.msgs.KeyHelp))
	sb.WriteString("\n")
	return sb.String()
}

// dividerWidth spans the window, capped to keep wide terminals readable.
func (m LeadPageModel) dividerWidth() int {
	switch {
	case m.width <= 0:
		return defaultDividerWidth
	case m.width > maxDividerWidth:
		return maxDividerWidth
	default:
		return m.width
	}
}

func (m LeadPageModel) button(c page.Control, focused bool) string {
	switch {
	case !c.Enabled:
		return m.styles.DisabledButton.Render(c.Label)
	case focused:
		return m.styles.FocusedButton.Render(c.Label)
	default:
		return m.styles.Button.Render(c.Label)
	}
}
