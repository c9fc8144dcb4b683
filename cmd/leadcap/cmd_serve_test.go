package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"leadcap/internal/lead"
	"leadcap/internal/leadapi"
	"leadcap/internal/web"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTimeoutCoversTwoAPICalls(t *testing.T) {
	for _, apiTimeout := range []time.Duration{300 * time.Millisecond, 30 * time.Second} {
		assert.Greater(t, writeTimeout(apiTimeout), 2*apiTimeout)
	}
}

func TestSlowBackendSubmitCompletes(t *testing.T) {
	const (
		apiTimeout = 300 * time.Millisecond
		callDelay  = 200 * time.Millisecond
	)

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(callDelay)
		if r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode([]lead.Lead{{Nome: "Ana", Email: "ana@x.com"}})
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(api.Close)

	client, err := leadapi.New(leadapi.Config{BaseURL: api.URL, Timeout: apiTimeout})
	require.NoError(t, err)

	handler := web.NewServer(web.Config{Language: "pt-BR"}, client, nil, nil).Handler()
	srv := httptest.NewUnstartedServer(handler)
	srv.Config.WriteTimeout = writeTimeout(apiTimeout)
	srv.Start()
	t.Cleanup(srv.Close)

	resp, err := http.PostForm(srv.URL+"/lead", url.Values{
		"nome":     {"Ana"},
		"email":    {"ana@x.com"},
		"telefone": {"11987654321"},
	})
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
