package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/ppiankov/storybook/internal/model"
)

var (
	ErrNotFound      = errors.New("document not found")
	ErrInvalidID     = errors.New("invalid document id")
	ErrEmptyDocument = errors.New("document has no data")
)

// Store persists rendered documents
type Store interface {
	Save(ctx context.Context, doc *model.Document) (string, error)
	List(ctx context.Context) ([]model.Document, error)
	Get(ctx context.Context, id string) (*model.Document, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// SQLiteStore keeps documents in a single SQLite file
type SQLiteStore struct {
	db    *sql.DB
	now   func() time.Time
	newID func() string
}

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	title TEXT NOT NULL DEFAULT '',
	language TEXT NOT NULL DEFAULT '',
	author TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL,
	stories_count INTEGER NOT NULL DEFAULT 0,
	metadata TEXT,
	data BLOB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents(created_at);
`

// Open opens or creates the database at path
func Open(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	// One connection keeps ":memory:" databases shared and avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping store: %w", err)
	}

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	s := &SQLiteStore{
		db:    db,
		now:   time.Now,
		newID: uuid.NewString,
	}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save stores doc under a new id and returns it. ID and CreatedAt on doc are overwritten.
func (s *SQLiteStore) Save(ctx context.Context, doc *model.Document) (string, error) {
	if len(doc.Data) == 0 {
		return "", ErrEmptyDocument
	}

	doc.ID = s.newID()
	doc.CreatedAt = s.now().UTC()

	var metadata sql.NullString
	if len(doc.Metadata) > 0 {
		metadata = sql.NullString{String: string(doc.Metadata), Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id, filename, title, language, author, created_at, stories_count, metadata, data)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Filename, doc.Title, doc.Language, doc.Author,
		doc.CreatedAt.UnixNano(), doc.StoriesCount, metadata, doc.Data,
	)
	if err != nil {
		return "", fmt.Errorf("insert document: %w", err)
	}

	return doc.ID, nil
}

// List returns every document newest first, without Data
func (s *SQLiteStore) List(ctx context.Context) ([]model.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, filename, title, language, author, created_at, stories_count, metadata
		 FROM documents ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	docs := []model.Document{}
	for rows.Next() {
		var (
			doc      model.Document
			created  int64
			metadata sql.NullString
		)
		if err := rows.Scan(&doc.ID, &doc.Filename, &doc.Title, &doc.Language, &doc.Author,
			&created, &doc.StoriesCount, &metadata); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		doc.CreatedAt = time.Unix(0, created).UTC()
		if metadata.Valid {
			doc.Metadata = []byte(metadata.String)
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// Get returns one document including Data
func (s *SQLiteStore) Get(ctx context.Context, id string) (*model.Document, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	var (
		doc      model.Document
		created  int64
		metadata sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, filename, title, language, author, created_at, stories_count, metadata, data
		 FROM documents WHERE id = ?`, id,
	).Scan(&doc.ID, &doc.Filename, &doc.Title, &doc.Language, &doc.Author,
		&created, &doc.StoriesCount, &metadata, &doc.Data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}

	doc.CreatedAt = time.Unix(0, created).UTC()
	if metadata.Valid {
		doc.Metadata = []byte(metadata.String)
	}
	return &doc, nil
}

// Delete removes one document
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ValidateID rejects ids that are not UUIDs
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}
	return nil
}
