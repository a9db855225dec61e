// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog keeps named graph snapshots in a SQLite database so crawls
// and indexed graphs can be listed and reopened without tracking files.
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

	"github.com/pdiddy/citeside/internal/graph"
	"github.com/pdiddy/citeside/internal/snapshot"
	"github.com/pdiddy/citeside/pkg/types"
)

const dbFile = "catalog.db"

// ErrNotFound is returned when no snapshot has the requested name.
var ErrNotFound = errors.New("snapshot not found")

// Entry describes a stored snapshot.
type Entry struct {
	ID        string
	Name      string
	CrawlRoot string
	Nodes     int
	Edges     int
	Indexed   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store manages the catalog database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore opens or creates <dir>/catalog.db and its schema.
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, now: func() time.Time { return time.Now().UTC() }}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			crawl_root TEXT,
			crawl_depth INTEGER,
			reverse_depth INTEGER,
			comb_indexed INTEGER NOT NULL DEFAULT 0,
			node_count INTEGER NOT NULL,
			edge_count INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS nodes (
			snapshot_id TEXT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			node_id TEXT NOT NULL,
			depth INTEGER,
			critical REAL,
			PRIMARY KEY (snapshot_id, node_id)
		)`,
		`CREATE TABLE IF NOT EXISTS edges (
			snapshot_id TEXT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			source TEXT NOT NULL,
			target TEXT NOT NULL,
			weight REAL NOT NULL,
			base_weight REAL,
			PRIMARY KEY (snapshot_id, source, target)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_nodes_position ON nodes(snapshot_id, position)`,
		`CREATE INDEX IF NOT EXISTS idx_edges_position ON edges(snapshot_id, position)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save stores g under name, replacing any snapshot with the same name. A
// replaced snapshot keeps its id and creation time.
func (s *Store) Save(ctx context.Context, name string, g *graph.Graph) (Entry, error) {
	if name == "" {
		return Entry{}, fmt.Errorf("saving snapshot: empty name")
	}
	snap := snapshot.Build(g)
	now := s.now().Format(time.RFC3339)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Entry{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshots (id, name, crawl_root, crawl_depth, reverse_depth, comb_indexed, node_count, edge_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			crawl_root = excluded.crawl_root,
			crawl_depth = excluded.crawl_depth,
			reverse_depth = excluded.reverse_depth,
			comb_indexed = excluded.comb_indexed,
			node_count = excluded.node_count,
			edge_count = excluded.edge_count,
			updated_at = excluded.updated_at`,
		uuid.NewString(), name,
		nullString(snap.Meta.CrawlRoot), nullInt(snap.Meta.CrawlDepth), nullInt(snap.Meta.ReverseDepth),
		snap.Meta.CombIndexed, len(snap.Nodes), len(snap.Edges), now, now,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("upserting snapshot %s: %w", name, err)
	}

	var id string
	if err := tx.QueryRowContext(ctx, `SELECT id FROM snapshots WHERE name = ?`, name).Scan(&id); err != nil {
		return Entry{}, fmt.Errorf("reading snapshot id: %w", err)
	}
	for _, stmt := range []string{`DELETE FROM nodes WHERE snapshot_id = ?`, `DELETE FROM edges WHERE snapshot_id = ?`} {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return Entry{}, fmt.Errorf("clearing snapshot %s: %w", name, err)
		}
	}

	nodeStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO nodes (snapshot_id, position, node_id, depth, critical) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return Entry{}, fmt.Errorf("preparing node insert: %w", err)
	}
	defer nodeStmt.Close()
	for i, n := range snap.Nodes {
		if _, err := nodeStmt.ExecContext(ctx, id, i, n.ID, nullInt(n.Attrs.Depth), nullFloat(n.Attrs.Critical)); err != nil {
			return Entry{}, fmt.Errorf("inserting node %s: %w", n.ID, err)
		}
	}

	edgeStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO edges (snapshot_id, position, source, target, weight, base_weight) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return Entry{}, fmt.Errorf("preparing edge insert: %w", err)
	}
	defer edgeStmt.Close()
	for i, e := range snap.Edges {
		var base sql.NullFloat64
		if e.Attrs.BaseWeight != nil {
			base = sql.NullFloat64{Float64: float64(*e.Attrs.BaseWeight), Valid: true}
		}
		if _, err := edgeStmt.ExecContext(ctx, id, i, e.Source, e.Target, e.Attrs.Weight.Float(graph.Unscored), base); err != nil {
			return Entry{}, fmt.Errorf("inserting edge %s -> %s: %w", e.Source, e.Target, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Entry{}, fmt.Errorf("committing snapshot %s: %w", name, err)
	}
	return s.entry(ctx, name)
}

// Open rebuilds the snapshot stored under name.
func (s *Store) Open(ctx context.Context, name string) (*graph.Graph, graph.Report, error) {
	var (
		id          string
		snap        types.Snapshot
		root        sql.NullString
		depth, rev  sql.NullInt64
		combIndexed bool
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, crawl_root, crawl_depth, reverse_depth, comb_indexed FROM snapshots WHERE name = ?`, name,
	).Scan(&id, &root, &depth, &rev, &combIndexed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, graph.Report{}, fmt.Errorf("opening %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, graph.Report{}, fmt.Errorf("querying snapshot %s: %w", name, err)
	}
	snap.Meta = types.SnapshotMeta{
		CrawlRoot:    stringPtr(root),
		CrawlDepth:   intPtr(depth),
		ReverseDepth: intPtr(rev),
		CombIndexed:  combIndexed,
	}

	nodeRows, err := s.db.QueryContext(ctx,
		`SELECT node_id, depth, critical FROM nodes WHERE snapshot_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, graph.Report{}, fmt.Errorf("querying nodes: %w", err)
	}
	defer nodeRows.Close()
	for nodeRows.Next() {
		var (
			n    types.SnapshotNode
			d    sql.NullInt64
			crit sql.NullFloat64
		)
		if err := nodeRows.Scan(&n.ID, &d, &crit); err != nil {
			return nil, graph.Report{}, fmt.Errorf("scanning node: %w", err)
		}
		n.Attrs = types.NodeAttrs{Depth: intPtr(d), Critical: floatPtr(crit)}
		snap.Nodes = append(snap.Nodes, n)
	}
	if err := nodeRows.Err(); err != nil {
		return nil, graph.Report{}, fmt.Errorf("iterating nodes: %w", err)
	}

	edgeRows, err := s.db.QueryContext(ctx,
		`SELECT source, target, weight, base_weight FROM edges WHERE snapshot_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, graph.Report{}, fmt.Errorf("querying edges: %w", err)
	}
	defer edgeRows.Close()
	for edgeRows.Next() {
		var (
			e    types.SnapshotEdge
			w    float64
			base sql.NullFloat64
		)
		if err := edgeRows.Scan(&e.Source, &e.Target, &w, &base); err != nil {
			return nil, graph.Report{}, fmt.Errorf("scanning edge: %w", err)
		}
		e.Attrs.Weight = types.ScorePtr(w)
		if base.Valid {
			e.Attrs.BaseWeight = types.ScorePtr(base.Float64)
		}
		snap.Edges = append(snap.Edges, e)
	}
	if err := edgeRows.Err(); err != nil {
		return nil, graph.Report{}, fmt.Errorf("iterating edges: %w", err)
	}

	g, report, err := snapshot.Restore(snap)
	if err != nil {
		return nil, report, fmt.Errorf("opening %s: %w", name, err)
	}
	return g, report, nil
}

// List returns every stored snapshot ordered by name.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, crawl_root, comb_indexed, node_count, edge_count, created_at, updated_at
		FROM snapshots ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying snapshots: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Delete removes the snapshot stored under name.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting %s: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("deleting %s: %w", name, ErrNotFound)
	}
	return nil
}

func (s *Store) entry(ctx context.Context, name string) (Entry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, crawl_root, comb_indexed, node_count, edge_count, created_at, updated_at
		FROM snapshots WHERE name = ?`, name)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("reading %s: %w", name, ErrNotFound)
	}
	return e, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (Entry, error) {
	var (
		e                Entry
		root             sql.NullString
		created, updated string
	)
	if err := sc.Scan(&e.ID, &e.Name, &root, &e.Indexed, &e.Nodes, &e.Edges, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, err
		}
		return Entry{}, fmt.Errorf("scanning snapshot: %w", err)
	}
	e.CrawlRoot = root.String
	e.CreatedAt, _ = time.Parse(time.RFC3339, created)
	e.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return e, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func intPtr(i sql.NullInt64) *int {
	if !i.Valid {
		return nil
	}
	v := int(i.Int64)
	return &v
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	return &f.Float64
}
