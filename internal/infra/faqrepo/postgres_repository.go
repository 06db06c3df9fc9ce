package faqrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/faq-chatbot/internal/domain/faq"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS qa_pairs (
	id BIGSERIAL PRIMARY KEY,
	question TEXT NOT NULL,
	question_key TEXT NOT NULL UNIQUE,
	answer TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS question_associations (
	id BIGSERIAL PRIMARY KEY,
	original_question TEXT NOT NULL,
	associated_question TEXT NOT NULL,
	count BIGINT NOT NULL DEFAULT 1,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (original_question, associated_question)
);
`

// PostgresRepository implements faq.Repository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the tables when missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, postgresSchema)
	return err
}

// ListPairs returns every pair in insertion order.
func (r *PostgresRepository) ListPairs(ctx context.Context) ([]faq.QAPair, error) {
	rows, err := r.pool.Query(ctx, `
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
func (r *PostgresRepository) InsertPair(ctx context.Context, question, answer string) (faq.QAPair, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO qa_pairs (question, question_key, answer)
		VALUES ($1, $2, $3)
		ON CONFLICT (question_key) DO NOTHING
		RETURNING id, question, answer, created_at
	`, question, questionKey(question), answer)
	pair, err := scanPair(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return faq.QAPair{}, faq.ErrDuplicateQuestion
		}
		return faq.QAPair{}, err
	}
	return pair, nil
}

// FindByQuestion fetches by exact question text.
func (r *PostgresRepository) FindByQuestion(ctx context.Context, question string) (faq.QAPair, bool, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, question, answer, created_at
		FROM qa_pairs
		WHERE question = $1
		LIMIT 1
	`, question)
	if err != nil {
		return faq.QAPair{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return faq.QAPair{}, false, rows.Err()
	}
	pair, err := scanPair(rows)
	if err != nil {
		return faq.QAPair{}, false, err
	}
	return pair, true, rows.Err()
}

// ListAssociations returns every association in insertion order.
func (r *PostgresRepository) ListAssociations(ctx context.Context) ([]faq.QuestionAssociation, error) {
	rows, err := r.pool.Query(ctx, `
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
func (r *PostgresRepository) UpsertAssociation(ctx context.Context, original, associated string) (faq.QuestionAssociation, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO question_associations (original_question, associated_question, count)
		VALUES ($1, $2, 1)
		ON CONFLICT (original_question, associated_question)
		DO UPDATE SET count = question_associations.count + 1, updated_at = NOW()
		RETURNING id, original_question, associated_question, count, created_at, updated_at
	`, original, associated)
	return scanAssociation(row)
}

// Reset truncates both tables.
func (r *PostgresRepository) Reset(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `TRUNCATE question_associations, qa_pairs RESTART IDENTITY`)
	return err
}

// Close releases the pool.
func (r *PostgresRepository) Close() {
	r.pool.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPair(row rowScanner) (faq.QAPair, error) {
	var pair faq.QAPair
	if err := row.Scan(&pair.ID, &pair.Question, &pair.Answer, &pair.CreatedAt); err != nil {
		return faq.QAPair{}, err
	}
	pair.CreatedAt = pair.CreatedAt.UTC()
	return pair, nil
}

func scanAssociation(row rowScanner) (faq.QuestionAssociation, error) {
	var assoc faq.QuestionAssociation
	if err := row.Scan(&assoc.ID, &assoc.OriginalQuestion, &assoc.AssociatedQuestion, &assoc.Count, &assoc.CreatedAt, &assoc.UpdatedAt); err != nil {
		return faq.QuestionAssociation{}, err
	}
	assoc.CreatedAt = assoc.CreatedAt.UTC()
	assoc.UpdatedAt = assoc.UpdatedAt.UTC()
	return assoc, nil
}

var _ faq.Repository = (*PostgresRepository)(nil)
