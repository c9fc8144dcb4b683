// Package page drives a lead capture page: it loads and renders the lead
// table, validates and submits the form, and keeps the status region and
// controls in step with in-flight requests. Rendering is delegated to a View
// so the same controller serves the terminal, console and web adapters.
package page

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"leadcap/internal/lead"
	"leadcap/internal/leadapi"

	"go.uber.org/zap"
)

// LeadAPI is the subset of the lead API client the controller needs.
type LeadAPI interface {
	ListLeads(ctx context.Context) ([]lead.Lead, error)
	CreateLead(ctx context.Context, form lead.Form) error
}

// Controller is the lead page logic. It is safe for concurrent use.
type Controller struct {
	api  LeadAPI
	view View
	msgs Messages
	log  *zap.Logger

	// seq numbers each load; only the newest dispatched load may render.
	seq atomic.Uint64

	// renderMu serializes the staleness check with the render that follows it.
	renderMu sync.Mutex
	leads    []lead.Lead
	loaded   bool

	ctlMu         sync.Mutex
	loadsInFlight int
	savesInFlight int
}

// NewController wires a controller. A nil logger discards diagnostics.
func NewController(api LeadAPI, view View, msgs Messages, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		api:  api,
		view: view,
		msgs: msgs,
		log:  log,
	}
}

// Messages returns the catalog the controller renders with.
func (c *Controller) Messages() Messages {
	return c.msgs
}

// Leads returns the leads of the last successful render.
func (c *Controller) Leads() []lead.Lead {
	c.renderMu.Lock()
	defer c.renderMu.Unlock()
	return append([]lead.Lead(nil), c.leads...)
}

// ShowMessage sets the status region. Empty text hides it.
func (c *Controller) ShowMessage(text string, kind Kind) {
	if text == "" {
		kind = KindNone
	}
	c.view.SetStatus(text, kind)
}

// RenderTable replaces the table rows and the counter with leads.
func (c *Controller) RenderTable(leads []lead.Lead) {
	c.renderMu.Lock()
	defer c.renderMu.Unlock()
	c.renderLocked(leads)
}

func (c *Controller) renderLocked(leads []lead.Lead) {
	c.leads = append([]lead.Lead(nil), leads...)
	c.view.SetRows(lead.BuildRows(leads, c.msgs.EmptyTable))
	c.view.SetCounter(c.msgs.Counter(len(leads)))
}

// LoadLeads fetches the lead list and renders it. On failure the table is
// left as it was and the error is shown; the returned error is the same one.
// A response that arrives after a newer load was dispatched is dropped and
// nil is returned.
func (c *Controller) LoadLeads(ctx context.Context) error {
	return c.load(ctx, true)
}

// load runs one fetch. A quiet load neither announces itself nor clears the
// status region, so a message set just before it stays visible.
func (c *Controller) load(ctx context.Context, announce bool) error {
	seq := c.seq.Add(1)
	c.beginLoad()
	defer c.endLoad()

	if announce {
		c.ShowMessage(c.msgs.Loading, KindOK)
	}

	leads, err := c.api.ListLeads(ctx)

	c.renderMu.Lock()
	defer c.renderMu.Unlock()

	if latest := c.seq.Load(); seq != latest {
		c.log.Debug("discarding stale lead list",
			zap.Uint64("seq", seq),
			zap.Uint64("latest", latest),
			zap.Error(err))
		return nil
	}

	if err != nil {
		c.log.Error("failed to load leads", zap.Uint64("seq", seq), zap.Error(err))
		c.ShowMessage(c.loadErrorText(err), KindError)
		if !c.loaded {
			c.view.SetRows(lead.BuildRows(nil, c.msgs.EmptyTable))
			c.view.SetCounter(c.msgs.Counter(0))
		}
		return err
	}

	c.renderLocked(leads)
	c.loaded = true
	c.log.Debug("rendered lead list", zap.Uint64("seq", seq), zap.Int("count", len(leads)))
	if announce {
		c.ShowMessage("", KindNone)
	}
	return nil
}

// SubmitLead validates and sends form. Blank fields fail with a
// *lead.ValidationError before any request is made. After a successful save
// the form is reset and the list is reloaded once; a reload failure is shown
// but does not fail the submit.
//
// Unlike LoadLeads, that reload is quiet: it shows no loading message and
// does not clear the status region, so the success message stays visible
// until the next explicit load.
func (c *Controller) SubmitLead(ctx context.Context, form lead.Form) error {
	form = form.Trimmed()
	if err := form.Validate(); err != nil {
		c.ShowMessage(c.msgs.FillAllFields, KindError)
		return err
	}

	c.ShowMessage("", KindNone)
	c.beginSave()
	defer c.endSave()

	if err := c.api.CreateLead(ctx, form); err != nil {
		c.log.Error("failed to save lead", zap.Error(err))
		c.ShowMessage(c.saveErrorText(err), KindError)
		return err
	}

	c.log.Info("lead saved", zap.String("email", form.Email))
	c.ShowMessage(c.msgs.Saved, KindOK)
	c.view.ResetForm()

	if err := c.load(ctx, false); err != nil {
		c.log.Warn("reload after save failed", zap.Error(err))
	}
	return nil
}

func (c *Controller) beginLoad() {
	c.ctlMu.Lock()
	defer c.ctlMu.Unlock()
	c.loadsInFlight++
	if c.loadsInFlight == 1 {
		c.view.SetRefreshControl(false, c.msgs.RefreshBusy)
	}
}

func (c *Controller) endLoad() {
	c.ctlMu.Lock()
	defer c.ctlMu.Unlock()
	c.loadsInFlight--
	if c.loadsInFlight == 0 {
		c.view.SetRefreshControl(true, c.msgs.RefreshIdle)
	}
}

func (c *Controller) beginSave() {
	c.ctlMu.Lock()
	defer c.ctlMu.Unlock()
	c.savesInFlight++
	if c.savesInFlight == 1 {
		c.view.SetSaveControl(false, c.msgs.SaveBusy)
	}
}

func (c *Controller) endSave() {
	c.ctlMu.Lock()
	defer c.ctlMu.Unlock()
	c.savesInFlight--
	if c.savesInFlight == 0 {
		c.view.SetSaveControl(true, c.msgs.SaveIdle)
	}
}

func (c *Controller) loadErrorText(err error) string {
	var httpErr *leadapi.HTTPError
	var netErr *leadapi.NetworkError
	switch {
	case errors.As(err, &httpErr):
		return fmt.Sprintf(c.msgs.LoadStatus, httpErr.StatusCode)
	case errors.As(err, &netErr):
		return c.msgs.NetworkFailure
	default:
		return c.msgs.LoadFailed
	}
}

func (c *Controller) saveErrorText(err error) string {
	var httpErr *leadapi.HTTPError
	var netErr *leadapi.NetworkError
	switch {
	case errors.As(err, &httpErr):
		if httpErr.Detail != "" {
			return httpErr.Detail
		}
		return fmt.Sprintf(c.msgs.SaveStatus, httpErr.StatusCode)
	case errors.As(err, &netErr):
		return c.msgs.NetworkFailure
	default:
		return c.msgs.SaveFailed
	}
}
