package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bnema/acs/internal/domain"
	"github.com/bnema/acs/internal/ports"
	"github.com/spf13/viper"

	_ "modernc.org/sqlite"
)

const (
	StorePathKey    = "store.path"
	storeDirMode    = 0o700
	storeConfigDir  = ".config/acs"
	storeConfigFile = "uconfig.db"
	dsnPragmas      = "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
)

const schema = `
CREATE TABLE IF NOT EXISTS guilds (
	chat_id        TEXT PRIMARY KEY,
	default_server TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS guild_users (
	chat_id  TEXT NOT NULL REFERENCES guilds(chat_id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	user_id  TEXT NOT NULL,
	PRIMARY KEY (chat_id, position)
);

CREATE TABLE IF NOT EXISTS users (
	user_id  TEXT PRIMARY KEY,
	username TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS user_servers (
	user_id    TEXT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
	position   INTEGER NOT NULL,
	identifier TEXT NOT NULL,
	PRIMARY KEY (user_id, position)
);
`

// Repository keeps the linkage document in a SQLite database. Every Update
// rewrites the document inside a single transaction.
type Repository struct {
	db   *sql.DB
	path string

	mu    sync.Mutex
	cache *domain.Config
}

var _ ports.ConfigStore = (*Repository)(nil)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	path := cfg.GetString(StorePathKey)
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(homeDir, storeConfigDir, storeConfigFile)
	}

	return Open(path)
}

// Open creates the database at path when needed. ":memory:" is accepted.
func Open(path string) (*Repository, error) {
	if path != ":memory:" {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
		path = filepath.Clean(absPath)
		if err := os.MkdirAll(filepath.Dir(path), storeDirMode); err != nil {
			return nil, fmt.Errorf("%w: create database directory: %w", domain.ErrStoreUnavailable, err)
		}
	}

	db, err := sql.Open("sqlite", path+dsnPragmas)
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %w", domain.ErrStoreUnavailable, err)
	}
	// One connection keeps ":memory:" databases alive and writes serialized.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping database: %w", domain.ErrStoreUnavailable, err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: init schema: %w", domain.ErrStoreUnavailable, err)
	}

	return &Repository{db: db, path: path}, nil
}

func (r *Repository) Path() string {
	return r.path
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) Load(ctx context.Context) (domain.Config, error) {
	if err := ctx.Err(); err != nil {
		return domain.Config{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cache != nil {
		return r.cache.Clone(), nil
	}

	cfg, err := readConfig(ctx, r.db)
	if err != nil {
		return domain.Config{}, err
	}

	r.cache = &cfg
	return cfg.Clone(), nil
}

func (r *Repository) Save(ctx context.Context, cfg domain.Config) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.replace(ctx, nil, cfg.Clone())
}

func (r *Repository) Update(ctx context.Context, fn func(cfg *domain.Config) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.replace(ctx, fn, domain.Config{})
}

// replace reads the current document inside the transaction when fn is set,
// applies fn to it, then rewrites every table.
func (r *Repository) replace(ctx context.Context, fn func(cfg *domain.Config) error, next domain.Config) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %w", domain.ErrStoreUnavailable, err)
	}
	defer func() { _ = tx.Rollback() }()

	if fn != nil {
		current, err := readConfig(ctx, tx)
		if err != nil {
			return err
		}
		if err := fn(&current); err != nil {
			return err
		}
		next = current
	}
	next.Normalize()

	if err := writeConfig(ctx, tx, next); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit transaction: %w", domain.ErrStoreUnavailable, err)
	}

	r.cache = &next
	return nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func readConfig(ctx context.Context, q querier) (domain.Config, error) {
	cfg := domain.NewConfig()

	if err := scanRows(ctx, q, `SELECT chat_id, default_server FROM guilds`, func(rows *sql.Rows) error {
		var chat, def string
		if err := rows.Scan(&chat, &def); err != nil {
			return err
		}
		cfg.Guilds[domain.ChatID(chat)] = domain.GuildEntry{LoggedUsers: []domain.UserID{}, Default: domain.ServerIdentifier(def)}
		return nil
	}); err != nil {
		return domain.Config{}, err
	}

	if err := scanRows(ctx, q, `SELECT chat_id, user_id FROM guild_users ORDER BY chat_id, position`, func(rows *sql.Rows) error {
		var chat, user string
		if err := rows.Scan(&chat, &user); err != nil {
			return err
		}
		guild := cfg.Guilds[domain.ChatID(chat)]
		guild.LoggedUsers = append(guild.LoggedUsers, domain.UserID(user))
		cfg.Guilds[domain.ChatID(chat)] = guild
		return nil
	}); err != nil {
		return domain.Config{}, err
	}

	if err := scanRows(ctx, q, `SELECT user_id, username FROM users`, func(rows *sql.Rows) error {
		var user, username string
		if err := rows.Scan(&user, &username); err != nil {
			return err
		}
		cfg.Users[domain.UserID(user)] = domain.UserEntry{Username: username, Servers: []domain.ServerIdentifier{}}
		return nil
	}); err != nil {
		return domain.Config{}, err
	}

	if err := scanRows(ctx, q, `SELECT user_id, identifier FROM user_servers ORDER BY user_id, position`, func(rows *sql.Rows) error {
		var user, identifier string
		if err := rows.Scan(&user, &identifier); err != nil {
			return err
		}
		entry := cfg.Users[domain.UserID(user)]
		entry.Servers = append(entry.Servers, domain.ServerIdentifier(identifier))
		cfg.Users[domain.UserID(user)] = entry
		return nil
	}); err != nil {
		return domain.Config{}, err
	}

	return cfg, nil
}

func scanRows(ctx context.Context, q querier, query string, scan func(rows *sql.Rows) error) error {
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("%w: query: %w", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("%w: scan row: %w", domain.ErrStoreUnavailable, err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: iterate rows: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func writeConfig(ctx context.Context, tx *sql.Tx, cfg domain.Config) error {
	for _, stmt := range []string{
		`DELETE FROM user_servers`,
		`DELETE FROM users`,
		`DELETE FROM guild_users`,
		`DELETE FROM guilds`,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: clear tables: %w", domain.ErrStoreUnavailable, err)
		}
	}

	for chat, guild := range cfg.Guilds {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO guilds (chat_id, default_server) VALUES (?, ?)`,
			string(chat), string(guild.Default),
		); err != nil {
			return fmt.Errorf("%w: insert guild %q: %w", domain.ErrStoreUnavailable, chat, err)
		}
		for position, user := range guild.LoggedUsers {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO guild_users (chat_id, position, user_id) VALUES (?, ?, ?)`,
				string(chat), position, string(user),
			); err != nil {
				return fmt.Errorf("%w: insert guild user %q: %w", domain.ErrStoreUnavailable, user, err)
			}
		}
	}

	for id, user := range cfg.Users {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO users (user_id, username) VALUES (?, ?)`,
			string(id), user.Username,
		); err != nil {
			return fmt.Errorf("%w: insert user %q: %w", domain.ErrStoreUnavailable, id, err)
		}
		for position, identifier := range user.Servers {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO user_servers (user_id, position, identifier) VALUES (?, ?, ?)`,
				string(id), position, string(identifier),
			); err != nil {
				return fmt.Errorf("%w: insert server %q: %w", domain.ErrStoreUnavailable, identifier, err)
			}
		}
	}

	return nil
}
