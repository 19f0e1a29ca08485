// Package main tests for the chatflow CLI application
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/app/replay"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/config"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/core/graph"
)

// execute runs the root command with args and returns its stdout
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	tests := []struct {
		name      string
		version   string
		commit    string
		buildTime string
		want      string
	}{
		{
			name:      "version with dev defaults",
			version:   "dev",
			commit:    "unknown",
			buildTime: "unknown",
			want:      "Chatflow dev (commit: unknown, built: unknown)\n",
		},
		{
			name:      "version with custom values",
			version:   "v1.0.0",
			commit:    "abc123",
			buildTime: "2024-01-01",
			want:      "Chatflow v1.0.0 (commit: abc123, built: 2024-01-01)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldVersion, oldCommit, oldBuildTime := Version, Commit, BuildTime
			t.Cleanup(func() { Version, Commit, BuildTime = oldVersion, oldCommit, oldBuildTime })

			Version, Commit, BuildTime = tt.version, tt.commit, tt.buildTime

			out, err := execute(t, "version")
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestVersionVariables(t *testing.T) {
	assert.NotEmpty(t, Version)
	assert.NotEmpty(t, Commit)
	assert.NotEmpty(t, BuildTime)
}

func TestUnknownCommand(t *testing.T) {
	_, err := execute(t, "deploy")
	assert.Error(t, err)
}

func TestReplayCommand(t *testing.T) {
	chdirForTest(t, t.TempDir())
	t.Setenv("CHATFLOW_STORE", "none")
	t.Setenv("LOG_LEVEL", "error")

	script := `
- event: drop
- event: drop
- event: connect
  source: node_1
  target: node_2
- event: connect
  source: node_1
  target: node_2
- event: save
`
	path := filepath.Join(t.TempDir(), "script.yaml")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o600))

	out, err := execute(t, "replay", path)
	require.NoError(t, err)

	var report replay.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Outcomes, 5)
	assert.Equal(t, "Each node can only have one outgoing connection", report.Outcomes[3].Rejected)
	require.NotNil(t, report.Outcomes[4].Save)
	assert.True(t, report.Outcomes[4].Save.Valid)
	assert.Len(t, report.Final.Nodes, 2)
}

func TestReplayCommand_Errors(t *testing.T) {
	_, err := execute(t, "replay")
	assert.Error(t, err)

	_, err = execute(t, "replay", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- event: explode\n"), 0o600))
	_, err = execute(t, "replay", path)
	assert.ErrorIs(t, err, replay.ErrUnknownEvent)
}

func TestOpenRepository(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	tests := []struct {
		name    string
		storage config.StorageConfig
		wantNil bool
		wantErr bool
	}{
		{name: "none", storage: config.StorageConfig{Backend: config.StoreNone}, wantNil: true},
		{name: "memory", storage: config.StorageConfig{Backend: config.StoreMemory}},
		{name: "sqlite", storage: config.StorageConfig{Backend: config.StoreSQLite, SQLiteDSN: ":memory:", Codec: "json", Compression: "gzip"}},
		{name: "sqlite bad codec", storage: config.StorageConfig{Backend: config.StoreSQLite, SQLiteDSN: ":memory:", Codec: "xml"}, wantErr: true},
		{name: "unknown", storage: config.StorageConfig{Backend: "redis"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Storage: tt.storage}
			repo, closeRepo, err := openRepository(ctx, cfg, logger)
			require.NotNil(t, closeRepo)
			defer func() { assert.NoError(t, closeRepo()) }()

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, repo)
				return
			}
			require.NotNil(t, repo)

			f := &graph.Flow{ID: "f1", Nodes: []graph.Node{{ID: "node_1", Kind: graph.KindMessage}}}
			require.NoError(t, repo.Save(ctx, f))
			loaded, err := repo.Get(ctx, "f1")
			require.NoError(t, err)
			assert.Equal(t, "node_1", loaded.Nodes[0].ID)
		})
	}
}

func TestSessionConfig(t *testing.T) {
	cfg := &config.Config{Editor: config.EditorConfig{RejectSelfLoops: true, CheckCycles: true}}

	c := sessionConfig(cfg, nil, nil, zap.NewNop())()
	assert.Nil(t, c.Sink)
	assert.True(t, c.Policy.RejectSelfLoops)
	assert.True(t, c.CheckCycles)
}

// chdirForTest changes the working directory for the duration of the test
// and restores it on cleanup (equivalent of testing.T.Chdir, Go 1.24+).
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
