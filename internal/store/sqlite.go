package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/content-api/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite, for local
// development and tests.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS users (
	id              TEXT PRIMARY KEY,
	username        TEXT NOT NULL UNIQUE,
	email           TEXT NOT NULL UNIQUE,
	hashed_password TEXT NOT NULL,
	created_at      DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS contents (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL REFERENCES users(id),
	text       TEXT NOT NULL,
	summary    TEXT,
	sentiment  TEXT,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);
CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
CREATE INDEX IF NOT EXISTS idx_contents_user_id ON contents(user_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateUser(ctx context.Context, username, email, hashedPassword string) (*model.User, error) {
	user := &model.User{
		ID:             uuid.New().String(),
		Username:       username,
		Email:          email,
		HashedPassword: hashedPassword,
		CreatedAt:      time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, email, hashed_password, created_at) VALUES (?, ?, ?, ?, ?)`,
		user.ID, user.Username, user.Email, user.HashedPassword, user.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, ErrDuplicate
		}
		return nil, eris.Wrap(err, "sqlite: insert user")
	}
	return user, nil
}

func (s *SQLiteStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.getUser(ctx,
		`SELECT id, username, email, hashed_password, created_at FROM users WHERE username = ?`,
		username,
	)
}

func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.getUser(ctx,
		`SELECT id, username, email, hashed_password, created_at FROM users WHERE email = ?`,
		email,
	)
}

func (s *SQLiteStore) getUser(ctx context.Context, query, arg string) (*model.User, error) {
	var u model.User
	err := s.db.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Username, &u.Email, &u.HashedPassword, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get user")
	}
	return &u, nil
}

func (s *SQLiteStore) CreateContent(ctx context.Context, userID, text string) (*model.Content, error) {
	content := &model.Content{
		ID:        uuid.New().String(),
		UserID:    userID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contents (id, user_id, text, created_at) VALUES (?, ?, ?, ?)`,
		content.ID, content.UserID, content.Text, content.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert content")
	}
	return content, nil
}

func (s *SQLiteStore) GetContent(ctx context.Context, id, userID string) (*model.Content, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, text, summary, sentiment, created_at, updated_at FROM contents WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	c, err := scanContent(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get content")
	}
	return c, nil
}

func (s *SQLiteStore) ListContents(ctx context.Context, userID string, limit, offset int) ([]model.Content, int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, text, summary, sentiment, created_at, updated_at FROM contents WHERE user_id = ? ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, 0, eris.Wrap(err, "sqlite: list contents")
	}
	defer rows.Close()

	var contents []model.Content
	for rows.Next() {
		c, err := scanContent(rows.Scan)
		if err != nil {
			return nil, 0, eris.Wrap(err, "sqlite: scan content")
		}
		contents = append(contents, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, eris.Wrap(err, "sqlite: iterate contents")
	}

	var total int
	err = s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM contents WHERE user_id = ?`,
		userID,
	).Scan(&total)
	if err != nil {
		return nil, 0, eris.Wrap(err, "sqlite: count contents")
	}

	return contents, total, nil
}

func (s *SQLiteStore) DeleteContent(ctx context.Context, id, userID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM contents WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: delete content")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) UpdateContentAnalysis(ctx context.Context, id, summary string, sentiment model.Sentiment) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE contents SET summary = ?, sentiment = ?, updated_at = ? WHERE id = ?`,
		summary, string(sentiment), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: update analysis")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanContent(scan func(dest ...any) error) (*model.Content, error) {
	var c model.Content
	var sentiment *string
	if err := scan(&c.ID, &c.UserID, &c.Text, &c.Summary, &sentiment, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if sentiment != nil {
		v := model.Sentiment(*sentiment)
		c.Sentiment = &v
	}
	return &c, nil
}
