package faqrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/yanqian/faq-chatbot/internal/domain/faq"
	"github.com/yanqian/faq-chatbot/pkg/util"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS qa_pairs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	question TEXT NOT NULL,
	question_key TEXT NOT NULL UNIQUE,
	answer TEXT NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS question_associations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	original_question TEXT NOT NULL,
	associated_question TEXT NOT NULL,
	count INTEGER NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	UNIQUE (original_question, associated_question)
);

CREATE INDEX IF NOT EXISTS idx_qa_pairs_question ON qa_pairs(question);
`

// SQLiteRepository implements faq.Repository on a single SQLite file.
type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteRepository opens (or creates) the database at path and applies the
// schema. path may be ":memory:".
func NewSQLiteRepository(path string) (*SQLiteRepository, error) {
	dsn := path
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection serializes writers and keeps :memory: databases alive
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &SQLiteRepository{db: db, now: util.Clock(nil)}, nil
}

// ListPairs returns every pair in insertion order.
func (r *SQLiteRepository) ListPairs(ctx context.Context) ([]faq.QAPair, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, question, answer, created_at
		FROM qa_pairs
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var pairs []faq.QAPair
	for rows.Next() {
		pair, err := scanPair(rows)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, pair)
	}
	return pairs, rows.Err()
}

// InsertPair adds a pair unless its question already exists ignoring case.
func (r *SQLiteRepository) InsertPair(ctx context.Context, question, answer string) (faq.QAPair, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO qa_pairs (question, question_key, answer, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (question_key) DO NOTHING
		RETURNING id, question, answer, created_at
	`, question, questionKey(question), answer, r.now())
	pair, err := scanPair(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return faq.QAPair{}, faq.ErrDuplicateQuestion
		}
		return faq.QAPair{}, err
	}
	return pair, nil
}

// FindByQuestion fetches by exact question text.
func (r *SQLiteRepository) FindByQuestion(ctx context.Context, question string) (faq.QAPair, bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, question, answer, created_at
		FROM qa_pairs
		WHERE question = ?
		LIMIT 1
	`, question)
	pair, err := scanPair(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return faq.QAPair{}, false, nil
		}
		return faq.QAPair{}, false, err
	}
	return pair, true, nil
}

// ListAssociations returns every association in insertion order.
func (r *SQLiteRepository) ListAssociations(ctx context.Context) ([]faq.QuestionAssociation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, original_question, associated_question, count, created_at, updated_at
		FROM question_associations
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []faq.QuestionAssociation
	for rows.Next() {
		assoc, err := scanAssociation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, assoc)
	}
	return out, rows.Err()
}

// UpsertAssociation creates the pair with count 1 or increments it in one statement.
func (r *SQLiteRepository) UpsertAssociation(ctx context.Context, original, associated string) (faq.QuestionAssociation, error) {
	now := r.now()
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO question_associations (original_question, associated_question, count, created_at, updated_at)
		VALUES (?, ?, 1, ?, ?)
		ON CONFLICT (original_question, associated_question)
		DO UPDATE SET count = count + 1, updated_at = excluded.updated_at
		RETURNING id, original_question, associated_question, count, created_at, updated_at
	`, original, associated, now, now)
	return scanAssociation(row)
}

// Reset deletes every row and restarts the id sequences.
func (r *SQLiteRepository) Reset(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, stmt := range []string{
		`DELETE FROM question_associations`,
		`DELETE FROM qa_pairs`,
		`DELETE FROM sqlite_sequence WHERE name IN ('qa_pairs', 'question_associations')`,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Close closes the database.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

var _ faq.Repository = (*SQLiteRepository)(nil)
