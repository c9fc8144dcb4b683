package page

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"leadcap/internal/lead"
	"leadcap/internal/leadapi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeAPI struct {
	mu          sync.Mutex
	listCalls   int
	createCalls int
	forms       []lead.Form

	list   func(ctx context.Context, call int) ([]lead.Lead, error)
	create func(ctx context.Context, form lead.Form) error
}

func (f *fakeAPI) ListLeads(ctx context.Context) ([]lead.Lead, error) {
	f.mu.Lock()
	f.listCalls++
	call := f.listCalls
	f.mu.Unlock()
	if f.list == nil {
		return nil, nil
	}
	return f.list(ctx, call)
}

func (f *fakeAPI) CreateLead(ctx context.Context, form lead.Form) error {
	f.mu.Lock()
	f.createCalls++
	f.forms = append(f.forms, form)
	f.mu.Unlock()
	if f.create == nil {
		return nil
	}
	return f.create(ctx, form)
}

func (f *fakeAPI) calls() (list, create int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls, f.createCalls
}

// recordingView is a State that also keeps every status it was given.
type recordingView struct {
	*State
	mu       sync.Mutex
	statuses []string
}

func (v *recordingView) SetStatus(text string, kind Kind) {
	v.mu.Lock()
	v.statuses = append(v.statuses, text)
	v.mu.Unlock()
	v.State.SetStatus(text, kind)
}

func (v *recordingView) seen() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.statuses...)
}

var msgs = Catalog("pt-BR")

func newTestController(t *testing.T, api LeadAPI) (*Controller, *recordingView, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	view := &recordingView{State: NewState(msgs)}
	return NewController(api, view, msgs, zap.New(core)), view, logs
}

func twoLeads() []lead.Lead {
	return []lead.Lead{
		{ID: "1", Nome: "Ana", Email: "ana@x.com", Telefone: "(11) 98765-4321"},
		{ID: "2", Nome: "Bia", Email: "bia@x.com"},
	}
}

func TestLoadLeadsRendersTable(t *testing.T) {
	api := &fakeAPI{list: func(context.Context, int) ([]lead.Lead, error) { return twoLeads(), nil }}
	ctrl, view, _ := newTestController(t, api)

	require.NoError(t, ctrl.LoadLeads(context.Background()))

	snap := view.Snapshot()
	require.Len(t, snap.Rows, 2)
	assert.Equal(t, "1", snap.Rows[0].Index)
	assert.Equal(t, "Bia", snap.Rows[1].Nome)
	assert.Equal(t, "", snap.Rows[1].Telefone)
	assert.Equal(t, "2 leads", snap.Counter)
	assert.False(t, snap.StatusVisible())
	assert.Equal(t, Control{Enabled: true, Label: "Atualizar lista"}, snap.Refresh)
	assert.Equal(t, []string{"Carregando leads...", ""}, view.seen())
	assert.Len(t, ctrl.Leads(), 2)
}

func TestLoadLeadsDisablesRefreshWhileInFlight(t *testing.T) {
	var during Snapshot
	var view *recordingView
	api := &fakeAPI{list: func(context.Context, int) ([]lead.Lead, error) {
		during = view.Snapshot()
		return nil, nil
	}}
	ctrl, v, _ := newTestController(t, api)
	view = v

	require.NoError(t, ctrl.LoadLeads(context.Background()))

	assert.Equal(t, Control{Enabled: false, Label: "Atualizando..."}, during.Refresh)
	assert.Equal(t, "Carregando leads...", during.Status)
	assert.Equal(t, KindOK, during.Kind)
	assert.True(t, view.Snapshot().Refresh.Enabled)
}

func TestLoadLeadsEmptyShowsPlaceholder(t *testing.T) {
	ctrl, view, _ := newTestController(t, &fakeAPI{})

	require.NoError(t, ctrl.LoadLeads(context.Background()))

	snap := view.Snapshot()
	require.Len(t, snap.Rows, 1)
	assert.True(t, snap.Rows[0].Placeholder)
	assert.Equal(t, "Nenhum lead cadastrado ainda.", snap.Rows[0].Text)
	assert.Equal(t, "Nenhum lead cadastrado", snap.Counter)
}

func TestLoadLeadsFailure(t *testing.T) {
	t.Run("first load shows placeholder", func(t *testing.T) {
		api := &fakeAPI{list: func(context.Context, int) ([]lead.Lead, error) {
			return nil, &leadapi.HTTPError{Op: "list", StatusCode: http.StatusUnauthorized}
		}}
		ctrl, view, logs := newTestController(t, api)

		err := ctrl.LoadLeads(context.Background())

		var httpErr *leadapi.HTTPError
		require.ErrorAs(t, err, &httpErr)
		snap := view.Snapshot()
		assert.Equal(t, "Erro ao buscar leads (status 401)", snap.Status)
		assert.Equal(t, KindError, snap.Kind)
		require.Len(t, snap.Rows, 1)
		assert.True(t, snap.Rows[0].Placeholder)
		assert.True(t, snap.Refresh.Enabled)
		assert.Equal(t, 1, logs.FilterMessage("failed to load leads").Len())
	})

	t.Run("later failure keeps table", func(t *testing.T) {
		api := &fakeAPI{list: func(_ context.Context, call int) ([]lead.Lead, error) {
			if call == 1 {
				return twoLeads(), nil
			}
			return nil, &leadapi.NetworkError{Op: "list", Err: errors.New("connection refused")}
		}}
		ctrl, view, _ := newTestController(t, api)

		require.NoError(t, ctrl.LoadLeads(context.Background()))
		require.Error(t, ctrl.LoadLeads(context.Background()))

		snap := view.Snapshot()
		assert.Len(t, snap.Rows, 2)
		assert.Equal(t, "2 leads", snap.Counter)
		assert.Equal(t, msgs.NetworkFailure, snap.Status)
		assert.True(t, snap.Refresh.Enabled)
	})

	t.Run("unknown error uses generic text", func(t *testing.T) {
		api := &fakeAPI{list: func(context.Context, int) ([]lead.Lead, error) {
			return nil, leadapi.ErrMalformedResponse
		}}
		ctrl, view, _ := newTestController(t, api)

		require.Error(t, ctrl.LoadLeads(context.Background()))
		assert.Equal(t, "Erro ao carregar leads", view.Snapshot().Status)
	})
}

func TestLoadLeadsDiscardsStaleResponse(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	api := &fakeAPI{list: func(_ context.Context, call int) ([]lead.Lead, error) {
		if call == 1 {
			close(entered)
			<-release
			return []lead.Lead{{Nome: "Old"}}, nil
		}
		return []lead.Lead{{Nome: "New"}, {Nome: "Newer"}}, nil
	}}
	ctrl, view, logs := newTestController(t, api)

	done := make(chan error, 1)
	go func() { done <- ctrl.LoadLeads(context.Background()) }()
	<-entered

	require.NoError(t, ctrl.LoadLeads(context.Background()))
	assert.False(t, view.Snapshot().Refresh.Enabled, "first load still in flight")

	close(release)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("stale load did not return")
	}

	snap := view.Snapshot()
	require.Len(t, snap.Rows, 2)
	assert.Equal(t, "New", snap.Rows[0].Nome)
	assert.Equal(t, "2 leads", snap.Counter)
	assert.Equal(t, Control{Enabled: true, Label: "Atualizar lista"}, snap.Refresh)
	assert.Equal(t, 1, logs.FilterMessage("discarding stale lead list").Len())
}

func TestConcurrentLoadsRestoreRefresh(t *testing.T) {
	var calls atomic.Int32
	api := &fakeAPI{list: func(context.Context, int) ([]lead.Lead, error) {
		calls.Add(1)
		time.Sleep(time.Millisecond)
		return twoLeads(), nil
	}}
	ctrl, view, _ := newTestController(t, api)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = ctrl.LoadLeads(context.Background())
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 8, calls.Load())
	snap := view.Snapshot()
	assert.True(t, snap.Refresh.Enabled)
	assert.Len(t, snap.Rows, 2)
}

func TestSubmitLeadValidation(t *testing.T) {
	cases := []lead.Form{
		{},
		{Nome: "Ana", Email: "ana@x.com"},
		{Nome: "   ", Email: "ana@x.com", Telefone: "11"},
		{Nome: "Ana", Email: "\t", Telefone: "11"},
	}
	for _, form := range cases {
		api := &fakeAPI{}
		ctrl, view, _ := newTestController(t, api)

		err := ctrl.SubmitLead(context.Background(), form)

		var verr *lead.ValidationError
		require.ErrorAs(t, err, &verr)
		list, create := api.calls()
		assert.Zero(t, list)
		assert.Zero(t, create)
		snap := view.Snapshot()
		assert.Equal(t, "Preencha todos os campos.", snap.Status)
		assert.Equal(t, KindError, snap.Kind)
		assert.True(t, snap.Save.Enabled)
	}
}

func TestSubmitLeadSuccessReloadsOnce(t *testing.T) {
	var saving Snapshot
	var view *recordingView
	api := &fakeAPI{
		list: func(context.Context, int) ([]lead.Lead, error) { return twoLeads(), nil },
		create: func(context.Context, lead.Form) error {
			saving = view.Snapshot()
			return nil
		},
	}
	ctrl, v, _ := newTestController(t, api)
	view = v

	err := ctrl.SubmitLead(context.Background(), lead.Form{Nome: " Ana ", Email: "ana@x.com ", Telefone: "(11) 98765-4321"})
	require.NoError(t, err)

	list, create := api.calls()
	assert.Equal(t, 1, create)
	assert.Equal(t, 1, list)
	assert.Equal(t, lead.Form{Nome: "Ana", Email: "ana@x.com", Telefone: "(11) 98765-4321"}, api.forms[0])

	assert.Equal(t, Control{Enabled: false, Label: "Salvando..."}, saving.Save)
	assert.False(t, saving.StatusVisible())

	snap := view.Snapshot()
	assert.Equal(t, "Lead salvo com sucesso!", snap.Status)
	assert.Equal(t, KindOK, snap.Kind)
	assert.Equal(t, uint64(1), snap.FormGeneration)
	assert.Equal(t, Control{Enabled: true, Label: "Salvar lead"}, snap.Save)
	assert.Equal(t, "2 leads", snap.Counter)
	assert.NotContains(t, view.seen(), "Carregando leads...")
}

func TestSubmitLeadReloadFailureIsShown(t *testing.T) {
	api := &fakeAPI{list: func(context.Context, int) ([]lead.Lead, error) {
		return nil, &leadapi.HTTPError{Op: "list", StatusCode: 503}
	}}
	ctrl, view, _ := newTestController(t, api)

	require.NoError(t, ctrl.SubmitLead(context.Background(), lead.Form{Nome: "a", Email: "b", Telefone: "c"}))

	snap := view.Snapshot()
	assert.Equal(t, "Erro ao buscar leads (status 503)", snap.Status)
	assert.Equal(t, uint64(1), snap.FormGeneration)
	assert.True(t, snap.Save.Enabled)
}

func TestSubmitLeadAgainstAPI(t *testing.T) {
	cases := []struct {
		name        string
		status      int
		contentType string
		body        string
		want        string
	}{
		{"detail", http.StatusBadRequest, "application/json", `{"detail":"Email já cadastrado"}`, "Email já cadastrado"},
		{"bad request not json", http.StatusBadRequest, "text/html", "<h1>Bad Request</h1>", "Erro ao salvar lead (status 400)"},
		{"not json", http.StatusInternalServerError, "text/plain", "Internal Server Error", "Erro ao salvar lead (status 500)"},
		{"no detail", http.StatusConflict, "application/json", `{"error":"dup"}`, "Erro ao salvar lead (status 409)"},
	}

	for _, tc := range cases {
		tc := tc // per-iteration copy (pre-Go 1.22 loop semantics)
		t.Run(tc.name, func(t *testing.T) {
			var gets atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				switch {
				case r.Method == http.MethodPost && r.URL.Path == "/lead":
					w.Header().Set("Content-Type", tc.contentType)
					w.WriteHeader(tc.status)
					_, _ = w.Write([]byte(tc.body))
				case r.Method == http.MethodGet && r.URL.Path == "/leads":
					gets.Add(1)
					_, _ = w.Write([]byte(`[]`))
				default:
					http.NotFound(w, r)
				}
			}))
			t.Cleanup(srv.Close)

			client, err := leadapi.New(leadapi.Config{BaseURL: srv.URL, APIKey: "k"})
			require.NoError(t, err)
			ctrl, view, logs := newTestController(t, client)

			err = ctrl.SubmitLead(context.Background(), lead.Form{Nome: "Ana", Email: "ana@x.com", Telefone: "11"})

			var httpErr *leadapi.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, tc.status, httpErr.StatusCode)
			snap := view.Snapshot()
			assert.Equal(t, tc.want, snap.Status)
			assert.Equal(t, KindError, snap.Kind)
			assert.True(t, snap.Save.Enabled)
			assert.Zero(t, snap.FormGeneration)
			assert.Zero(t, gets.Load())
			assert.Equal(t, 1, logs.FilterMessage("failed to save lead").Len())
		})
	}
}

func TestSubmitLeadNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client, err := leadapi.New(leadapi.Config{BaseURL: url})
	require.NoError(t, err)
	ctrl, view, _ := newTestController(t, client)

	err = ctrl.SubmitLead(context.Background(), lead.Form{Nome: "Ana", Email: "ana@x.com", Telefone: "11"})

	var netErr *leadapi.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, msgs.NetworkFailure, view.Snapshot().Status)
	assert.True(t, view.Snapshot().Save.Enabled)
}

func TestShowMessage(t *testing.T) {
	ctrl, view, _ := newTestController(t, &fakeAPI{})

	ctrl.ShowMessage("ok", KindOK)
	assert.True(t, view.Snapshot().StatusVisible())
	assert.Equal(t, KindOK, view.Snapshot().Kind)

	ctrl.ShowMessage("", KindError)
	snap := view.Snapshot()
	assert.False(t, snap.StatusVisible())
	assert.Equal(t, KindNone, snap.Kind)
}

func TestRenderTable(t *testing.T) {
	ctrl, view, _ := newTestController(t, &fakeAPI{})

	ctrl.RenderTable([]lead.Lead{{Nome: "Ana"}})
	assert.Equal(t, "1 lead", view.Snapshot().Counter)

	ctrl.RenderTable(nil)
	snap := view.Snapshot()
	require.Len(t, snap.Rows, 1)
	assert.True(t, snap.Rows[0].Placeholder)
}
