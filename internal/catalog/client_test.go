package catalog

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"products":[
			{"id":101,"title":"Widget","category":"Electronics","brand":"Acme","rating":4.5},
			{"id":102,"title":"Gadget","category":"Accessories","brand":"Globex"}
		]}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, testLogger())
	entries := client.Fetch(context.Background())
	require.Len(t, entries, 2)

	assert.Equal(t, 101, entries[0].ID)
	assert.Equal(t, "Widget", entries[0].Title)
	assert.Equal(t, "Electronics", entries[0].Category)
	assert.Equal(t, "Acme", entries[0].Brand)
	assert.Equal(t, "4.5", entries[0].Rating)

	// Absent rating stays empty, never a placeholder.
	assert.Empty(t, entries[1].Rating)
}

func TestFetch_NonNumericRating(t *testing.T) {
	// One odd rating field must not reduce the whole run to an empty
	// catalog.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"products":[
			{"id":101,"title":"Widget","rating":"unknown"},
			{"id":102,"title":"Gadget","rating":4.2},
			{"id":103,"title":"Cable","rating":null},
			{"id":104,"title":"Hinge","rating":{"weird":true}}
		]}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, testLogger())
	entries := client.Fetch(context.Background())
	require.Len(t, entries, 4)

	assert.Equal(t, "unknown", entries[0].Rating)
	assert.Equal(t, "4.2", entries[1].Rating)
	assert.Empty(t, entries[2].Rating)
	assert.Empty(t, entries[3].Rating)
}

func TestFetch_Non2xxFailsOpen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, testLogger())
	assert.Empty(t, client.Fetch(context.Background()))
}

func TestFetch_NetworkErrorFailsOpen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewClient(srv.URL, time.Second, testLogger())
	assert.Empty(t, client.Fetch(context.Background()))
}

func TestFetch_BadJSONFailsOpen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"products": not json`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, testLogger())
	assert.Empty(t, client.Fetch(context.Background()))
}

func TestFetch_TimeoutFailsOpen(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer func() {
		close(block)
		srv.Close()
	}()

	client := NewClient(srv.URL, 50*time.Millisecond, testLogger())
	start := time.Now()
	assert.Empty(t, client.Fetch(context.Background()))
	assert.Less(t, time.Since(start), time.Second, "timeout must bound the request")
}
