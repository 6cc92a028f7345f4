package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/content-api/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses; pgxmock satisfies it
// for unit tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"insert_user":          `INSERT INTO users (id, username, email, hashed_password, created_at) VALUES ($1, $2, $3, $4, $5)`,
	"get_user_by_username": `SELECT id, username, email, hashed_password, created_at FROM users WHERE username = $1`,
	"get_user_by_email":    `SELECT id, username, email, hashed_password, created_at FROM users WHERE email = $1`,
	"insert_content":       `INSERT INTO contents (id, user_id, text, created_at) VALUES ($1, $2, $3, $4)`,
	"get_content":          `SELECT id, user_id, text, summary, sentiment, created_at, updated_at FROM contents WHERE id = $1 AND user_id = $2`,
	"delete_content":       `DELETE FROM contents WHERE id = $1 AND user_id = $2`,
	"update_analysis":      `UPDATE contents SET summary = $1, sentiment = $2, updated_at = $3 WHERE id = $4`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS users (
	id              TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	username        TEXT NOT NULL UNIQUE,
	email           TEXT NOT NULL UNIQUE,
	hashed_password TEXT NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS contents (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	user_id    TEXT NOT NULL REFERENCES users(id),
	text       TEXT NOT NULL,
	summary    TEXT,
	sentiment  TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);
CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
CREATE INDEX IF NOT EXISTS idx_contents_user_id ON contents(user_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, username, email, hashedPassword string) (*model.User, error) {
	user := &model.User{
		ID:             uuid.New().String(),
		Username:       username,
		Email:          email,
		HashedPassword: hashedPassword,
		CreatedAt:      time.Now().UTC(),
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, username, email, hashed_password, created_at) VALUES ($1, $2, $3, $4, $5)`,
		user.ID, user.Username, user.Email, user.HashedPassword, user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, eris.Wrap(err, "postgres: insert user")
	}
	return user, nil
}

func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.getUser(ctx,
		`SELECT id, username, email, hashed_password, created_at FROM users WHERE username = $1`,
		username,
	)
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.getUser(ctx,
		`SELECT id, username, email, hashed_password, created_at FROM users WHERE email = $1`,
		email,
	)
}

func (s *PostgresStore) getUser(ctx context.Context, query, arg string) (*model.User, error) {
	var u model.User
	err := s.pool.QueryRow(ctx, query, arg).
		Scan(&u.ID, &u.Username, &u.Email, &u.HashedPassword, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get user")
	}
	return &u, nil
}

func (s *PostgresStore) CreateContent(ctx context.Context, userID, text string) (*model.Content, error) {
	content := &model.Content{
		ID:        uuid.New().String(),
		UserID:    userID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO contents (id, user_id, text, created_at) VALUES ($1, $2, $3, $4)`,
		content.ID, content.UserID, content.Text, content.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert content")
	}
	return content, nil
}

func (s *PostgresStore) GetContent(ctx context.Context, id, userID string) (*model.Content, error) {
	var c model.Content
	var sentiment *string
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, text, summary, sentiment, created_at, updated_at FROM contents WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&c.ID, &c.UserID, &c.Text, &c.Summary, &sentiment, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get content")
	}
	if sentiment != nil {
		v := model.Sentiment(*sentiment)
		c.Sentiment = &v
	}
	return &c, nil
}

func (s *PostgresStore) ListContents(ctx context.Context, userID string, limit, offset int) ([]model.Content, int, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, text, summary, sentiment, created_at, updated_at FROM contents WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, 0, eris.Wrap(err, "postgres: list contents")
	}
	defer rows.Close()

	var contents []model.Content
	for rows.Next() {
		var c model.Content
		var sentiment *string
		if err := rows.Scan(&c.ID, &c.UserID, &c.Text, &c.Summary, &sentiment, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, eris.Wrap(err, "postgres: scan content")
		}
		if sentiment != nil {
			v := model.Sentiment(*sentiment)
			c.Sentiment = &v
		}
		contents = append(contents, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, eris.Wrap(err, "postgres: iterate contents")
	}

	var total int
	err = s.pool.QueryRow(ctx,
		`SELECT count(*) FROM contents WHERE user_id = $1`,
		userID,
	).Scan(&total)
	if err != nil {
		return nil, 0, eris.Wrap(err, "postgres: count contents")
	}

	return contents, total, nil
}

func (s *PostgresStore) DeleteContent(ctx context.Context, id, userID string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM contents WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return eris.Wrap(err, "postgres: delete content")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) UpdateContentAnalysis(ctx context.Context, id, summary string, sentiment model.Sentiment) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE contents SET summary = $1, sentiment = $2, updated_at = $3 WHERE id = $4`,
		summary, string(sentiment), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrap(err, "postgres: update analysis")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
