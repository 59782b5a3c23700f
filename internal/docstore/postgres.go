package docstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	uniqueViolation = "23505"
	primaryKeyName  = "documents_pkey"
)

// PostgresStore keeps every collection in a single JSONB table (see
// migrations/001_create_documents.sql). Filters use JSONB containment.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an open pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Collection returns a handle scoped to name.
func (s *PostgresStore) Collection(name string) Collection {
	return &postgresCollection{pool: s.pool, name: name}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	if s.pool == nil {
		return errors.New("postgres pool not configured")
	}
	return s.pool.Ping(ctx)
}

type postgresCollection struct {
	pool *pgxpool.Pool
	name string
}

func encodeJSON(v document) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (c *postgresCollection) filterJSON(filter Filter) (string, error) {
	doc, err := toFilter(filter)
	if err != nil {
		return "", err
	}
	return encodeJSON(doc)
}

func (c *postgresCollection) FindOne(ctx context.Context, filter Filter, out any) error {
	const query = `
        SELECT body FROM documents
        WHERE collection=$1 AND body @> $2::jsonb
        ORDER BY created_at, id
        LIMIT 1`

	f, err := c.filterJSON(filter)
	if err != nil {
		return err
	}
	var body []byte
	if err := c.pool.QueryRow(ctx, query, c.name, f).Scan(&body); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNoDocuments
		}
		return err
	}
	return decode(body, out)
}

func (c *postgresCollection) Find(ctx context.Context, filter Filter, out any) error {
	const query = `
        SELECT body FROM documents
        WHERE collection=$1 AND body @> $2::jsonb
        ORDER BY created_at, id`

	f, err := c.filterJSON(filter)
	if err != nil {
		return err
	}
	rows, err := c.pool.Query(ctx, query, c.name, f)
	if err != nil {
		return err
	}
	defer rows.Close()

	docs := make([]document, 0)
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return err
		}
		doc := document{}
		if err := json.Unmarshal(body, &doc); err != nil {
			return fmt.Errorf("decode document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return decodeDocuments(docs, out)
}

func (c *postgresCollection) InsertOne(ctx context.Context, v any) (InsertResult, error) {
	const query = `
        INSERT INTO documents (collection, id, body)
        VALUES ($1, $2, $3::jsonb)`

	doc, id, err := prepareInsert(v)
	if err != nil {
		return InsertResult{}, err
	}
	body, err := encodeJSON(doc)
	if err != nil {
		return InsertResult{}, err
	}
	if _, err := c.pool.Exec(ctx, query, c.name, id, body); err != nil {
		return InsertResult{}, mapWriteError(err)
	}
	return InsertResult{InsertedID: id}, nil
}

func (c *postgresCollection) UpdateOne(ctx context.Context, filter Filter, set any) (UpdateResult, error) {
	const selectQuery = `
        SELECT id FROM documents
        WHERE collection=$1 AND body @> $2::jsonb
        ORDER BY created_at, id
        LIMIT 1
        FOR UPDATE`
	const updateQuery = `
        UPDATE documents SET body = body || $3::jsonb
        WHERE collection=$1 AND id=$2 AND NOT body @> $3::jsonb`

	f, patch, err := c.updateArgs(filter, set)
	if err != nil {
		return UpdateResult{}, err
	}

	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return UpdateResult{}, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var id string
	if err := tx.QueryRow(ctx, selectQuery, c.name, f).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UpdateResult{}, nil
		}
		return UpdateResult{}, err
	}
	cmd, err := tx.Exec(ctx, updateQuery, c.name, id, patch)
	if err != nil {
		return UpdateResult{}, mapWriteError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return UpdateResult{}, err
	}
	return UpdateResult{MatchedCount: 1, ModifiedCount: cmd.RowsAffected()}, nil
}

func (c *postgresCollection) UpdateMany(ctx context.Context, filter Filter, set any) (UpdateResult, error) {
	const query = `
        WITH matched AS (
            SELECT id FROM documents
            WHERE collection=$1 AND body @> $2::jsonb
            FOR UPDATE
        ), updated AS (
            UPDATE documents d SET body = d.body || $3::jsonb
            FROM matched m
            WHERE d.collection=$1 AND d.id=m.id AND NOT d.body @> $3::jsonb
            RETURNING d.id
        )
        SELECT (SELECT count(*) FROM matched), (SELECT count(*) FROM updated)`

	f, patch, err := c.updateArgs(filter, set)
	if err != nil {
		return UpdateResult{}, err
	}
	var res UpdateResult
	if err := c.pool.QueryRow(ctx, query, c.name, f, patch).Scan(&res.MatchedCount, &res.ModifiedCount); err != nil {
		return UpdateResult{}, mapWriteError(err)
	}
	return res, nil
}

func (c *postgresCollection) DeleteOne(ctx context.Context, filter Filter) (DeleteResult, error) {
	const query = `
        DELETE FROM documents
        WHERE collection=$1 AND id = (
            SELECT id FROM documents
            WHERE collection=$1 AND body @> $2::jsonb
            ORDER BY created_at, id
            LIMIT 1
        )`

	f, err := c.filterJSON(filter)
	if err != nil {
		return DeleteResult{}, err
	}
	cmd, err := c.pool.Exec(ctx, query, c.name, f)
	if err != nil {
		return DeleteResult{}, err
	}
	return DeleteResult{DeletedCount: cmd.RowsAffected()}, nil
}

func (c *postgresCollection) updateArgs(filter Filter, set any) (string, string, error) {
	f, err := c.filterJSON(filter)
	if err != nil {
		return "", "", err
	}
	doc, err := prepareSet(set)
	if err != nil {
		return "", "", err
	}
	patch, err := encodeJSON(doc)
	if err != nil {
		return "", "", err
	}
	return f, patch, nil
}

// mapWriteError translates unique violations. The primary key guards _id;
// any other unique index guards a document field.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	if pgErr.ConstraintName == primaryKeyName {
		return ErrDuplicateID
	}
	return ErrDuplicateKey
}
