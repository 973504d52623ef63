package fetch_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amarastelive/amaraste-agent/internal/adapters/fetch"
)

func TestFetchReturnsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/home.pdf", r.URL.Path)
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF conteudo remoto"))
	}))
	defer srv.Close()

	f, err := fetch.NewHTTPFetcher(srv.URL, fetch.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	data, err := f.Fetch(context.Background(), "/home.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF conteudo remoto"), data)
}

func TestFetchAddsLeadingSlash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/abracadabra.pdf", r.URL.Path)
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	f, err := fetch.NewHTTPFetcher(srv.URL + "/")
	require.NoError(t, err)

	_, err = f.Fetch(context.Background(), "abracadabra.pdf")
	assert.NoError(t, err)
}

func TestFetchNon2xxIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f, err := fetch.NewHTTPFetcher(srv.URL)
	require.NoError(t, err)

	_, err = f.Fetch(context.Background(), "/sumiu.pdf")
	assert.Error(t, err)
}

func TestFetchHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	f, err := fetch.NewHTTPFetcher(srv.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = f.Fetch(ctx, "/lento.pdf")
	assert.Error(t, err)
}

func TestNewHTTPFetcherRequiresBaseURL(t *testing.T) {
	_, err := fetch.NewHTTPFetcher("   ")
	assert.Error(t, err)
}

func TestNoRemoteAlwaysFails(t *testing.T) {
	_, err := fetch.NoRemote{}.Fetch(context.Background(), "/home.pdf")
	assert.Error(t, err)
}
