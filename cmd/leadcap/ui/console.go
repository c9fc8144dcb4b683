package ui

import (
	"fmt"
	"io"
	"sync"

	"leadcap/internal/page"
)

// ConsoleView is a page.View for one-shot commands. Status changes are
// printed as they happen; the table is kept in the embedded State for the
// caller to print at the end.
type ConsoleView struct {
	*page.State

	mu     sync.Mutex
	out    io.Writer
	styles Styles
	quiet  bool
}

// NewConsoleView writes status lines to out. A quiet view only prints errors.
func NewConsoleView(out io.Writer, msgs page.Messages, styles Styles, quiet bool) *ConsoleView {
	return &ConsoleView{
		State:  page.NewState(msgs),
		out:    out,
		styles: styles,
		quiet:  quiet,
	}
}

func (v *ConsoleView) SetStatus(text string, kind page.Kind) {
	v.State.SetStatus(text, kind)
	if text == "" || (v.quiet && kind != page.KindError) {
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintln(v.out, v.styles.Status(text, kind))
}

// Status renders a status line in the style for kind.
func (s Styles) Status(text string, kind page.Kind) string {
	switch kind {
	case page.KindOK:
		return s.Success.Render(text)
	case page.KindError:
		return s.Error.Render(text)
	default:
		return s.Body.Render(text)
	}
}
