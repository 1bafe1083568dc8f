// Package catalog persists extracted networks in a local SQLite database
// and optionally archives them to object storage.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/dd0wney/cluso-modelgraph/pkg/network"
)

// ErrNotFound is returned when a requested network is not in the catalog.
var ErrNotFound = errors.New("network not found in catalog")

// Record describes one catalog row without its payload.
type Record struct {
	ID             string `json:"id"`
	NetworkID      string `json:"network_id"`
	Source         string `json:"source"`
	VertexCount    int    `json:"vertex_count"`
	EdgeCount      int    `json:"edge_count"`
	IsSubgraph     bool   `json:"is_subgraph"`
	IsFunctionBody bool   `json:"is_function_body"`
	CreatedAt      string `json:"created_at"`
}

// Store wraps the SQLite database holding the network catalog.
type Store struct {
	db *sql.DB
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS networks (
	id               TEXT PRIMARY KEY,
	network_id       TEXT NOT NULL UNIQUE,
	source           TEXT NOT NULL,
	vertex_count     INTEGER NOT NULL,
	edge_count       INTEGER NOT NULL,
	is_subgraph      INTEGER NOT NULL,
	is_function_body INTEGER NOT NULL,
	payload          BLOB NOT NULL,
	created_at       TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_networks_source ON networks(source);
`

// Open opens (or creates) a catalog database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" && dbPath != ":memory:" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating catalog directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging catalog: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating catalog schema: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save persists one network under the given source label. A network
// saved twice keeps its first record. Returns the record id.
func (s *Store) Save(ctx context.Context, n *network.Network, source string) (string, error) {
	blob, err := network.Pack(n)
	if err != nil {
		return "", err
	}

	id := uuid.New().String()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO networks (id, network_id, source, vertex_count, edge_count, is_subgraph, is_function_body, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(network_id) DO NOTHING
	`, id, n.ID, source, n.VertexCount(), n.EdgeCount(), n.IsSubgraph, n.IsFunctionBody, blob)
	if err != nil {
		return "", fmt.Errorf("saving network %s: %w", n.ID, err)
	}

	row := s.db.QueryRowContext(ctx, "SELECT id FROM networks WHERE network_id = ?", n.ID)
	if err := row.Scan(&id); err != nil {
		return "", fmt.Errorf("saving network %s: %w", n.ID, err)
	}
	return id, nil
}

// SaveAll persists a main network and everything discovered alongside it
// in a single transaction.
func (s *Store) SaveAll(ctx context.Context, source string, networks ...*network.Network) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting catalog transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO networks (id, network_id, source, vertex_count, edge_count, is_subgraph, is_function_body, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(network_id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("preparing catalog insert: %w", err)
	}
	defer stmt.Close()

	for _, n := range networks {
		blob, err := network.Pack(n)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, uuid.New().String(), n.ID, source,
			n.VertexCount(), n.EdgeCount(), n.IsSubgraph, n.IsFunctionBody, blob); err != nil {
			return fmt.Errorf("saving network %s: %w", n.ID, err)
		}
	}
	return tx.Commit()
}

// Load retrieves a network by its content id.
func (s *Store) Load(ctx context.Context, networkID string) (*network.Network, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT payload FROM networks WHERE network_id = ?", networkID).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading network %s: %w", networkID, err)
	}
	return network.Unpack(blob)
}

// List returns catalog records for a source, or all records when source
// is empty, newest first.
func (s *Store) List(ctx context.Context, source string) ([]Record, error) {
	query := `
		SELECT id, network_id, source, vertex_count, edge_count, is_subgraph, is_function_body, created_at
		FROM networks`
	args := []any{}
	if source != "" {
		query += " WHERE source = ?"
		args = append(args, source)
	}
	query += " ORDER BY created_at DESC, network_id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing catalog: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.NetworkID, &r.Source, &r.VertexCount,
			&r.EdgeCount, &r.IsSubgraph, &r.IsFunctionBody, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning catalog row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Count returns the number of catalogued networks.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM networks").Scan(&n)
	return n, err
}
