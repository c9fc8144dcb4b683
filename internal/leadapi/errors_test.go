package leadapi

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDetail(t *testing.T) {
	assert.Equal(t, "email já cadastrado", parseDetail([]byte(`{"detail":"email já cadastrado"}`)))
	assert.Equal(t, "", parseDetail([]byte(`{"detail":""}`)))
	assert.Equal(t, "", parseDetail([]byte(`{"detail":42}`)))
	assert.Equal(t, "", parseDetail([]byte(`not json`)))
	assert.Equal(t, "", parseDetail(nil))
}

func TestErrorMessages(t *testing.T) {
	herr := &HTTPError{Op: "create", StatusCode: 400, Detail: "Email inválido."}
	assert.Equal(t, "lead api create: status 400: Email inválido.", herr.Error())

	herr = &HTTPError{Op: "list", StatusCode: 503}
	assert.Equal(t, "lead api list: status 503", herr.Error())

	cause := errors.New("connection refused")
	nerr := &NetworkError{Op: "list", Err: cause}
	assert.ErrorIs(t, fmt.Errorf("load: %w", nerr), cause)
}
