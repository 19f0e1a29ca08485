package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/core/graph"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/pkg/serialization"
)

// FlowRepository stores saved flows in SQLite.
// The nodes and edges are kept as one serialized blob; the format column
// records the codec so rows written with another configuration stay readable.
type FlowRepository struct {
	db         *sql.DB
	serializer *serialization.Serializer
	tableName  string
}

type flowBody struct {
	Nodes []graph.Node `json:"nodes" msgpack:"nodes"`
	Edges []graph.Edge `json:"edges" msgpack:"edges"`
}

// NewFlowRepository creates a repository on an open database
func NewFlowRepository(db *sql.DB, serializer *serialization.Serializer) *FlowRepository {
	if serializer == nil {
		serializer = serialization.DefaultSerializer()
	}
	return &FlowRepository{
		db:         db,
		serializer: serializer,
		tableName:  "flows",
	}
}

// Open opens the database at dsn and creates the tables
func Open(ctx context.Context, dsn string, serializer *serialization.Serializer) (*FlowRepository, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// :memory: databases are per connection
	db.SetMaxOpenConns(1)

	repo := NewFlowRepository(db, serializer)
	if err := repo.CreateTables(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

// WithTableName allows overriding the default table name with validation.
// Only alphanumeric and underscore are permitted to prevent SQL injection via identifiers.
func (r *FlowRepository) WithTableName(name string) *FlowRepository {
	if isSafeIdent(name) {
		r.tableName = name
	}
	return r
}

func isSafeIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' {
			continue
		}
		return false
	}
	return true
}

// Save stores a flow, replacing any flow with the same ID
func (r *FlowRepository) Save(ctx context.Context, f *graph.Flow) error {
	if f == nil {
		return graph.ErrNilFlow
	}
	if f.ID == "" {
		return graph.ErrInvalidFlowID
	}

	data, err := r.serializer.Serialize(flowBody{Nodes: f.Nodes, Edges: f.Edges})
	if err != nil {
		return fmt.Errorf("failed to serialize flow: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT OR REPLACE INTO %s (id, format, body, node_count, edge_count, saved_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, r.tableName)

	_, err = r.db.ExecContext(ctx, query,
		f.ID, r.serializer.Format(), data, len(f.Nodes), len(f.Edges), f.SavedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to save flow: %w", err)
	}

	return nil
}

// Get loads a flow by ID
func (r *FlowRepository) Get(ctx context.Context, id string) (*graph.Flow, error) {
	if id == "" {
		return nil, graph.ErrInvalidFlowID
	}

	query := fmt.Sprintf("SELECT id, format, body, saved_at FROM %s WHERE id = ?", r.tableName)
	f, err := r.scanFlow(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, graph.ErrFlowNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// List loads every flow, most recently saved first
func (r *FlowRepository) List(ctx context.Context) ([]*graph.Flow, error) {
	query := fmt.Sprintf("SELECT id, format, body, saved_at FROM %s ORDER BY saved_at DESC, id", r.tableName)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list flows: %w", err)
	}
	defer rows.Close()

	var flows []*graph.Flow
	for rows.Next() {
		f, err := r.scanFlow(rows)
		if err != nil {
			return nil, err
		}
		flows = append(flows, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list flows: %w", err)
	}

	return flows, nil
}

// Delete removes a flow by ID
func (r *FlowRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return graph.ErrInvalidFlowID
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", r.tableName)
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete flow: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return graph.ErrFlowNotFound
	}

	return nil
}

// CreateTables creates the necessary database tables
func (r *FlowRepository) CreateTables(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			format TEXT NOT NULL,
			body BLOB NOT NULL,
			node_count INTEGER NOT NULL,
			edge_count INTEGER NOT NULL,
			saved_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_%s_saved_at ON %s (saved_at);
	`, r.tableName, r.tableName, r.tableName)

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// Close closes the database connection
func (r *FlowRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *FlowRepository) scanFlow(row rowScanner) (*graph.Flow, error) {
	var (
		f       graph.Flow
		format  string
		data    []byte
		savedAt int64
	)
	if err := row.Scan(&f.ID, &format, &data, &savedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan flow row: %w", err)
	}

	s := r.serializer
	if format != s.Format() {
		var err error
		if s, err = serialization.ForFormat(format); err != nil {
			return nil, fmt.Errorf("flow %s: %w", f.ID, err)
		}
	}

	var body flowBody
	if err := s.Deserialize(data, &body); err != nil {
		return nil, fmt.Errorf("failed to deserialize flow %s: %w", f.ID, err)
	}
	f.Nodes = body.Nodes
	f.Edges = body.Edges
	f.SavedAt = time.Unix(0, savedAt).UTC()

	return &f, nil
}
