package runbook

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPPingerSendsHeaders(t *testing.T) {
	var method string
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		got = r.Header.Clone()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	err := NewHTTPPinger(srv.Client()).Ping(srv.URL, map[string]string{
		"Authorization": "Bearer tok",
		"X-Source":      "runbook",
	})

	require.NoError(t, err)
	assert.Equal(t, "GET", method)
	assert.Equal(t, "Bearer tok", got.Get("Authorization"))
	assert.Equal(t, "runbook", got.Get("X-Source"))
}

func TestHTTPPingerAcceptsAnyTwoHundred(t *testing.T) {
	for _, status := range []int{200, 201, 204} {
		t.Run(fmt.Sprintf("%d", status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			}))
			defer srv.Close()

			assert.NoError(t, NewHTTPPinger(srv.Client()).Ping(srv.URL, nil))
		})
	}
}

func TestHTTPPingerRejectsNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := NewHTTPPinger(srv.Client()).Ping(srv.URL, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestHTTPPingerTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	require.Error(t, NewHTTPPinger(nil).Ping(url, nil))
}
