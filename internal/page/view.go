package page

import (
	"sync"

	"leadcap/internal/lead"
)

// Kind selects the style of the status region.
type Kind int

const (
	KindNone Kind = iota
	KindOK
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindError:
		return "error"
	default:
		return "none"
	}
}

// View is the rendering adapter the controller drives. Implementations must be
// safe for concurrent use.
type View interface {
	SetStatus(text string, kind Kind)
	SetRows(rows []lead.Row)
	SetCounter(text string)
	SetRefreshControl(enabled bool, label string)
	SetSaveControl(enabled bool, label string)
	ResetForm()
}

// Control is the state of a button.
type Control struct {
	Enabled bool
	Label   string
}

// Snapshot is a point-in-time copy of everything a page shows.
type Snapshot struct {
	Status  string
	Kind    Kind
	Rows    []lead.Row // nil until the first render
	Counter string
	Refresh Control
	Save    Control

	// FormGeneration increments on every ResetForm.
	FormGeneration uint64
}

// StatusVisible reports whether the status region is shown.
func (s Snapshot) StatusVisible() bool {
	return s.Status != ""
}

// Busy reports whether any control is disabled by an in-flight request.
func (s Snapshot) Busy() bool {
	return !s.Refresh.Enabled || !s.Save.Enabled
}

// State is an in-memory View guarded by a mutex. Adapters read it with
// Snapshot and may register a hook to hear about changes.
type State struct {
	mu       sync.RWMutex
	snap     Snapshot
	onChange func()
}

// NewState returns a State with both controls enabled and idle labels.
func NewState(msgs Messages) *State {
	return &State{
		snap: Snapshot{
			Refresh: Control{Enabled: true, Label: msgs.RefreshIdle},
			Save:    Control{Enabled: true, Label: msgs.SaveIdle},
		},
	}
}

// OnChange registers fn to run after every mutation. fn runs without the lock held.
func (s *State) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.snap
	if s.snap.Rows != nil {
		snap.Rows = append([]lead.Row(nil), s.snap.Rows...)
	}
	return snap
}

func (s *State) update(fn func(*Snapshot)) {
	s.mu.Lock()
	fn(&s.snap)
	hook := s.onChange
	s.mu.Unlock()

	if hook != nil {
		hook()
	}
}

func (s *State) SetStatus(text string, kind Kind) {
	s.update(func(snap *Snapshot) {
		snap.Status = text
		snap.Kind = kind
	})
}

func (s *State) SetRows(rows []lead.Row) {
	rows = append([]lead.Row(nil), rows...)
	s.update(func(snap *Snapshot) { snap.Rows = rows })
}

func (s *State) SetCounter(text string) {
	s.update(func(snap *Snapshot) { snap.Counter = text })
}

func (s *State) SetRefreshControl(enabled bool, label string) {
	s.update(func(snap *Snapshot) { snap.Refresh = Control{Enabled: enabled, Label: label} })
}

func (s *State) SetSaveControl(enabled bool, label string) {
	s.update(func(snap *Snapshot) { snap.Save = Control{Enabled: enabled, Label: label} })
}

func (s *State) ResetForm() {
	s.update(func(snap *Snapshot) { snap.FormGeneration++ })
}
