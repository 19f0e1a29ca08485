//go:build integration
// +build integration

// Package integration contains integration tests for chatflow
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/adapters/repository/sqlite"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/adapters/rest"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/app/dto"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/app/editor"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/core/graph"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/infrastructure/metrics"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/pkg/serialization"
)

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	resp, err := http.Post(url, "application/json", &buf)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

// TestFlowPersistsAcrossServers builds a flow over HTTP, saves it to a SQLite
// file, then reopens the file in a second server and loads the flow back.
func TestFlowPersistsAcrossServers(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "flows.db")

	newServer := func() (*httptest.Server, *sqlite.FlowRepository) {
		repo, err := sqlite.Open(ctx, dsn, serialization.DefaultSerializer())
		require.NoError(t, err)
		m := metrics.NewCollector("chatflow")
		mgr := editor.NewManager(func() editor.Config { return editor.Config{Sink: repo, Metrics: m} })
		srv := httptest.NewServer(rest.NewRouter(rest.Options{Sessions: mgr, Flows: repo, Metrics: m}).Setup())
		return srv, repo
	}

	srv, repo := newServer()
	var session dto.SessionResponse
	decodeBody(t, postJSON(t, srv.URL+"/api/sessions", nil), &session)
	base := srv.URL + "/api/sessions/" + session.SessionID

	for i := 0; i < 3; i++ {
		resp := postJSON(t, base+"/nodes", dto.DropNodeRequest{Kind: graph.KindMessage, Position: graph.Position{X: float64(i * 100)}})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}
	for _, e := range [][2]string{{"node_1", "node_2"}, {"node_2", "node_3"}} {
		resp := postJSON(t, base+"/edges", dto.ConnectRequest{Source: e[0], Target: e[1]})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	var save dto.SaveResponse
	decodeBody(t, postJSON(t, base+"/save", nil), &save)
	require.True(t, save.Valid, save.Message)

	srv.Close()
	require.NoError(t, repo.Close())

	// Second server on the same database file
	srv2, repo2 := newServer()
	defer srv2.Close()
	defer repo2.Close()

	var fresh dto.SessionResponse
	decodeBody(t, postJSON(t, srv2.URL+"/api/sessions", nil), &fresh)

	var loaded dto.GraphResponse
	resp := postJSON(t, srv2.URL+"/api/sessions/"+fresh.SessionID+"/load", dto.LoadFlowRequest{FlowID: session.SessionID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &loaded)

	assert.Len(t, loaded.Nodes, 3)
	assert.Len(t, loaded.Edges, 2)
	assert.Equal(t, "edge_node_2-node_3", loaded.Edges[1].ID)
}
