package library

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"
	_ "modernc.org/sqlite"

	"factoriobp.io/internal/blueprint"
	"factoriobp.io/internal/protocol"
)

var (
	ErrNotFound  = errors.New("library: no such entry")
	ErrAmbiguous = errors.New("library: id prefix matches more than one entry")
)

// Entry describes one stored document. The payload itself is the canonical
// JSON rendering, zstd-compressed; Digest is the blake3 hash of that JSON.
type Entry struct {
	ID         string
	Kind       string
	Label      string
	Version    string
	Blueprints int
	Entities   int
	Digest     string
	Size       int
	StoredSize int
	CreatedAt  time.Time
}

type Store struct {
	db  *sql.DB
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// OpenSQLite opens (or creates) the library database at path.
func OpenSQLite(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &protocol.IOError{Op: "mkdir", Path: dir, Err: err}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		_ = enc.Close()
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, enc: enc, dec: dec}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS entries (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			label TEXT NOT NULL,
			version TEXT NOT NULL,
			blueprints INTEGER NOT NULL,
			entities INTEGER NOT NULL,
			digest TEXT NOT NULL UNIQUE,
			size INTEGER NOT NULL,
			payload BLOB NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_entries_label ON entries(label);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	s.dec.Close()
	_ = s.enc.Close()
	return s.db.Close()
}

// Add stores doc and returns its entry. A document whose canonical JSON is
// already stored is not duplicated; the existing entry comes back with
// created=false.
func (s *Store) Add(ctx context.Context, doc *blueprint.Document) (e Entry, created bool, err error) {
	js, err := blueprint.Render(doc)
	if err != nil {
		return Entry{}, false, err
	}
	sum := blake3.Sum256(js)
	digest := hex.EncodeToString(sum[:])

	existing, err := s.queryOne(ctx, `WHERE digest = ?`, digest)
	switch {
	case err == nil:
		return existing, false, nil
	case !errors.Is(err, ErrNotFound):
		return Entry{}, false, err
	}

	bps := doc.Blueprints()
	entities := 0
	for _, bp := range bps {
		entities += len(bp.Entities)
	}
	payload := s.enc.EncodeAll(js, nil)
	e = Entry{
		ID:         uuid.NewString(),
		Kind:       doc.Kind(),
		Label:      doc.Label(),
		Version:    doc.Version().String(),
		Blueprints: len(bps),
		Entities:   entities,
		Digest:     digest,
		Size:       len(js),
		StoredSize: len(payload),
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO entries(id, kind, label, version, blueprints, entities, digest, size, payload, created_at)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Kind, e.Label, e.Version, e.Blueprints, e.Entities, e.Digest, e.Size, payload,
		e.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return Entry{}, false, fmt.Errorf("insert entry: %w", err)
	}
	return e, true, nil
}

// List returns all entries, newest first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, selectEntry+` ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Get resolves id (a full id or a unique prefix) and returns the entry with
// its parsed document.
func (s *Store) Get(ctx context.Context, id string) (Entry, *blueprint.Document, error) {
	e, err := s.Resolve(ctx, id)
	if err != nil {
		return Entry{}, nil, err
	}
	var payload []byte
	if err := s.db.QueryRowContext(ctx, `SELECT payload FROM entries WHERE id = ?`, e.ID).Scan(&payload); err != nil {
		return Entry{}, nil, err
	}
	js, err := s.dec.DecodeAll(payload, make([]byte, 0, e.Size))
	if err != nil {
		return Entry{}, nil, fmt.Errorf("entry %s: zstd: %w", e.ID, err)
	}
	sum := blake3.Sum256(js)
	if hex.EncodeToString(sum[:]) != e.Digest {
		return Entry{}, nil, fmt.Errorf("entry %s: digest mismatch", e.ID)
	}
	doc, err := blueprint.Parse(js)
	if err != nil {
		return Entry{}, nil, fmt.Errorf("entry %s: %w", e.ID, err)
	}
	return e, doc, nil
}

func (s *Store) Resolve(ctx context.Context, id string) (Entry, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return Entry{}, ErrNotFound
	}
	if e, err := s.queryOne(ctx, `WHERE id = ?`, id); !errors.Is(err, ErrNotFound) {
		return e, err
	}
	like := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(id) + "%"
	rows, err := s.db.QueryContext(ctx, selectEntry+` WHERE id LIKE ? ESCAPE '\' LIMIT 2`, like)
	if err != nil {
		return Entry{}, err
	}
	defer rows.Close()
	var found []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return Entry{}, err
		}
		found = append(found, e)
	}
	if err := rows.Err(); err != nil {
		return Entry{}, err
	}
	switch len(found) {
	case 0:
		return Entry{}, ErrNotFound
	case 1:
		return found[0], nil
	}
	return Entry{}, ErrAmbiguous
}

func (s *Store) Delete(ctx context.Context, id string) error {
	e, err := s.Resolve(ctx, id)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, e.ID)
	return err
}

const selectEntry = `SELECT id, kind, label, version, blueprints, entities, digest, size, length(payload), created_at FROM entries`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(r scanner) (Entry, error) {
	var (
		e       Entry
		created string
	)
	if err := r.Scan(&e.ID, &e.Kind, &e.Label, &e.Version, &e.Blueprints, &e.Entities, &e.Digest, &e.Size, &e.StoredSize, &created); err != nil {
		return Entry{}, err
	}
	t, err := time.Parse(time.RFC3339, created)
	if err != nil {
		return Entry{}, fmt.Errorf("entry %s: created_at: %w", e.ID, err)
	}
	e.CreatedAt = t
	return e, nil
}

func (s *Store) queryOne(ctx context.Context, where string, args ...any) (Entry, error) {
	e, err := scanEntry(s.db.QueryRowContext(ctx, selectEntry+" "+where, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	return e, err
}
