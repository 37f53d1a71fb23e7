package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/refgraph/refgraph/internal/citation"
	"github.com/refgraph/refgraph/internal/record"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite query cache. It is rebuilt from the JSONL source of
// truth and never written by the engine directly, so it can be deleted and
// regenerated at any time.
type DB struct {
	db *sql.DB
}

// selectRecordFields is the standard field list for record SELECT queries.
const selectRecordFields = `id, title, authors_json, pub_year, doi, url,
	abstract, venue, keywords_json, pdf_path,
	source_type, source_id, created_at, updated_at`

// OpenDB opens or creates the SQLite cache at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS records (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			authors_json TEXT,
			pub_year INTEGER,
			doi TEXT,
			url TEXT,
			abstract TEXT,
			venue TEXT,
			keywords_json TEXT,
			pdf_path TEXT,
			source_type TEXT,
			source_id TEXT,
			created_at TEXT,
			updated_at TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_records_doi ON records(doi) WHERE doi IS NOT NULL AND doi != '';

		CREATE VIRTUAL TABLE IF NOT EXISTS records_fts USING fts5(
			id,
			title,
			abstract,
			authors_text,
			keywords_text
		);

		CREATE TABLE IF NOT EXISTS edges (
			source_id TEXT NOT NULL,
			target_id TEXT NOT NULL,
			citation_type TEXT NOT NULL,
			discovery_method TEXT,
			confidence REAL NOT NULL,
			is_verified INTEGER NOT NULL DEFAULT 0,
			context TEXT,
			created_at TEXT,
			PRIMARY KEY (source_id, target_id)
		);

		CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(source_id);
		CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(target_id);
	`
	_, err := db.Exec(schema)
	return err
}

// Rebuild clears the cache and repopulates it from the given store.
// Returns the number of records and edges loaded.
func (d *DB) Rebuild(store Store) (int, int, error) {
	records, err := store.GetAllRecords()
	if err != nil {
		return 0, 0, fmt.Errorf("reading records: %w", err)
	}
	edges, err := store.GetAllEdges()
	if err != nil {
		return 0, 0, fmt.Errorf("reading edges: %w", err)
	}

	for _, table := range []string{"records", "records_fts", "edges"} {
		if _, err := d.db.Exec("DELETE FROM " + table); err != nil {
			return 0, 0, fmt.Errorf("clearing %s table: %w", table, err)
		}
	}

	recStmt, err := d.db.Prepare(`
		INSERT INTO records (` + selectRecordFields + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, 0, fmt.Errorf("preparing records insert: %w", err)
	}
	defer recStmt.Close()

	ftsStmt, err := d.db.Prepare(`
		INSERT INTO records_fts (id, title, abstract, authors_text, keywords_text)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, 0, fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	for _, r := range records {
		authorsJSON, err := json.Marshal(r.Authors)
		if err != nil {
			return 0, 0, fmt.Errorf("marshaling authors for %s: %w", r.ID, err)
		}
		keywordsJSON, err := json.Marshal(r.Keywords)
		if err != nil {
			return 0, 0, fmt.Errorf("marshaling keywords for %s: %w", r.ID, err)
		}

		_, err = recStmt.Exec(
			r.ID, r.Title, string(authorsJSON), r.Year,
			nullable(r.DOI), nullable(r.URL), nullable(r.Abstract), nullable(r.Venue),
			string(keywordsJSON), nullable(r.PDFPath),
			nullable(r.Source.Type), nullable(r.Source.ID),
			nullable(r.CreatedAt), nullable(r.UpdatedAt),
		)
		if err != nil {
			return 0, 0, fmt.Errorf("inserting record %s: %w", r.ID, err)
		}

		_, err = ftsStmt.Exec(r.ID, r.Title, r.Abstract,
			strings.Join(r.Authors, ", "), strings.Join(r.Keywords, " "))
		if err != nil {
			return 0, 0, fmt.Errorf("inserting fts for %s: %w", r.ID, err)
		}
	}

	edgeStmt, err := d.db.Prepare(`
		INSERT INTO edges (source_id, target_id, citation_type, discovery_method,
			confidence, is_verified, context, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, 0, fmt.Errorf("preparing edges insert: %w", err)
	}
	defer edgeStmt.Close()

	for _, e := range edges {
		verified := 0
		if e.IsVerified {
			verified = 1
		}
		_, err = edgeStmt.Exec(e.SourceID, e.TargetID, e.CitationType,
			nullable(e.DiscoveryMethod), e.Confidence, verified,
			nullable(e.Context), nullable(e.CreatedAt))
		if err != nil {
			return 0, 0, fmt.Errorf("inserting edge %s->%s: %w", e.SourceID, e.TargetID, err)
		}
	}

	return len(records), len(edges), nil
}

// GetByID retrieves a record by its ID, or nil if absent.
func (d *DB) GetByID(id string) (*record.Record, error) {
	row := d.db.QueryRow(`SELECT `+selectRecordFields+` FROM records WHERE id = ?`, id)
	return scanRecord(row)
}

// Search performs a full-text search over titles, abstracts, authors, and
// keywords.
func (d *DB) Search(query string, limit int) ([]record.Record, error) {
	rows, err := d.db.Query(`
		SELECT `+selectRecordFields+`
		FROM records
		WHERE id IN (SELECT id FROM records_fts WHERE records_fts MATCH ?)
		LIMIT ?`, prepareFTSQuery(query), limit)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// ListAll returns all records ordered by ID, optionally limited.
func (d *DB) ListAll(limit int) ([]record.Record, error) {
	query := `SELECT ` + selectRecordFields + ` FROM records ORDER BY id`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Count returns the total number of cached records.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM records").Scan(&count)
	return count, err
}

// CountEdges returns the total number of cached edges.
func (d *DB) CountEdges() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM edges").Scan(&count)
	return count, err
}

// EdgesBySource returns cached edges where the given record is the source.
func (d *DB) EdgesBySource(sourceID string) ([]citation.Edge, error) {
	rows, err := d.db.Query(`
		SELECT source_id, target_id, citation_type, discovery_method,
			confidence, is_verified, context, created_at
		FROM edges
		WHERE source_id = ?
		ORDER BY target_id
	`, sourceID)
	if err != nil {
		return nil, fmt.Errorf("querying edges by source: %w", err)
	}
	defer rows.Close()

	return scanEdges(rows)
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(s scanner) (*record.Record, error) {
	var r record.Record
	var authorsJSON, keywordsJSON sql.NullString
	var doi, url, abstract, venue, pdfPath sql.NullString
	var sourceType, sourceID, createdAt, updatedAt sql.NullString
	var year sql.NullInt64

	err := s.Scan(
		&r.ID, &r.Title, &authorsJSON, &year, &doi, &url,
		&abstract, &venue, &keywordsJSON, &pdfPath,
		&sourceType, &sourceID, &createdAt, &updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	r.DOI = doi.String
	r.URL = url.String
	r.Abstract = abstract.String
	r.Venue = venue.String
	r.PDFPath = pdfPath.String
	r.Source.Type = sourceType.String
	r.Source.ID = sourceID.String
	r.CreatedAt = createdAt.String
	r.UpdatedAt = updatedAt.String
	if year.Valid {
		r.Year = int(year.Int64)
	}

	if authorsJSON.Valid && authorsJSON.String != "" {
		if err := json.Unmarshal([]byte(authorsJSON.String), &r.Authors); err != nil {
			return nil, fmt.Errorf("parsing authors JSON for %s: %w", r.ID, err)
		}
	}
	if keywordsJSON.Valid && keywordsJSON.String != "" {
		if err := json.Unmarshal([]byte(keywordsJSON.String), &r.Keywords); err != nil {
			return nil, fmt.Errorf("parsing keywords JSON for %s: %w", r.ID, err)
		}
	}

	return &r, nil
}

func scanRecords(rows *sql.Rows) ([]record.Record, error) {
	var records []record.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		if r != nil {
			records = append(records, *r)
		}
	}
	return records, rows.Err()
}

func scanEdges(rows *sql.Rows) ([]citation.Edge, error) {
	var edges []citation.Edge
	for rows.Next() {
		var e citation.Edge
		var discovery, context, createdAt sql.NullString
		var verified int
		err := rows.Scan(&e.SourceID, &e.TargetID, &e.CitationType,
			&discovery, &e.Confidence, &verified, &context, &createdAt)
		if err != nil {
			return nil, err
		}
		e.DiscoveryMethod = discovery.String
		e.Context = context.String
		e.CreatedAt = createdAt.String
		e.IsVerified = verified != 0
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// nullable converts a string to sql.NullString, treating empty as NULL.
func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// prepareFTSQuery escapes special characters for FTS5 queries.
func prepareFTSQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	if strings.ContainsAny(query, "\"*+-:(){}[]^~") {
		query = strings.ReplaceAll(query, "\"", "\"\"")
		return "\"" + query + "\""
	}
	return query
}
