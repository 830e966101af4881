package apiclient_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NMHx2005/lms-frontend-sub000/apiclient"
	"github.com/NMHx2005/lms-frontend-sub000/notify"
	"github.com/NMHx2005/lms-frontend-sub000/session/storefakes"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// harness bundles a client pointed at a test server with its collaborators.
type harness struct {
	store  *storefakes.FakeStore
	notes  *notify.Recorder
	client *apiclient.Client
}

func newHarness(t *testing.T, srv *httptest.Server, store *storefakes.FakeStore, mutate ...func(*apiclient.Config)) *harness {
	t.Helper()

	cfg := apiclient.DefaultConfig()
	cfg.BaseOrigin = srv.URL
	for _, m := range mutate {
		m(&cfg)
	}
	if store == nil {
		store = storefakes.NewFakeStore()
	}
	notes := notify.NewRecorder()

	c, err := apiclient.New(cfg, store,
		apiclient.WithNotifier(notes),
		apiclient.WithLogger(zerolog.Nop()),
	)
	require.NoError(t, err)

	return &harness{store: store, notes: notes, client: c}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func unauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Token expired"})
}
