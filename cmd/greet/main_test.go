package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd(viper.New())
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestGreet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"greeting":"Hello, Ada Lovelace!"}`))
	}))
	defer srv.Close()

	out, errOut, err := execute(t, "--url", srv.URL, "--first", "Ada", "--last", "Lovelace")
	require.NoError(t, err)
	assert.Equal(t, "Hello, Ada Lovelace!\n", out)
	assert.Empty(t, errOut)
}

func TestGreet_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	out, errOut, err := execute(t, "--url", srv.URL)
	assert.Error(t, err)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "Failure: ")

	out, _, err = execute(t, "--url", srv.URL, "--strict=false")
	require.NoError(t, err)
	assert.Equal(t, "\n", out)
}

func TestGreet_NoURL(t *testing.T) {
	_, _, err := execute(t, "--url", "")
	assert.Error(t, err)
}
