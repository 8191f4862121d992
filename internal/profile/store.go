package profile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/robalyx/dolmetscher/internal/glossary"
	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const schema = `
CREATE TABLE IF NOT EXISTS profiles (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	api_key TEXT NOT NULL,
	secondary_api_key TEXT NOT NULL DEFAULT '',
	vocabulary TEXT NOT NULL DEFAULT '[]',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

const (
	currentKey    = "current_profile_id"
	profileFields = "id, name, api_key, secondary_api_key, vocabulary, created_at, updated_at"
)

// Store persists profiles and the current profile pointer in SQLite.
type Store struct {
	mu     sync.Mutex
	conn   *sqlite.Conn
	now    func() time.Time
	logger *zap.Logger
}

// Open opens or creates the profile database at path.
func Open(path string, logger *zap.Logger) (*Store, error) {
	// Open database
	conn, err := sqlite.OpenConn(path, sqlite.OpenCreate|sqlite.OpenReadWrite|sqlite.OpenWAL)
	if err != nil {
		return nil, fmt.Errorf("failed to open profile database: %w", err)
	}

	// Create tables
	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{
		conn:   conn,
		now:    time.Now,
		logger: logger.Named("profile_store"),
	}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.Close()
}

// withConn runs fn with exclusive use of the connection. The statement is
// interrupted when ctx is done.
func (s *Store) withConn(ctx context.Context, fn func(conn *sqlite.Conn) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conn.SetInterrupt(ctx.Done())
	defer s.conn.SetInterrupt(nil)

	return fn(s.conn)
}

// Save creates a new profile or updates the profile named by EditID. The
// saved profile becomes the current profile.
func (s *Store) Save(ctx context.Context, req SaveRequest) (*Profile, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	var saved *Profile
	err := s.withConn(ctx, func(conn *sqlite.Conn) (err error) {
		defer sqlitex.Save(conn)(&err)

		now := s.now()

		// Names are unique across profiles
		owner, err := profileIDByName(conn, req.Name)
		if err != nil {
			return err
		}

		if req.EditID == "" {
			if owner != "" {
				return fmt.Errorf("%w: %s", ErrDuplicateName, req.Name)
			}

			saved = &Profile{
				ID:              newID(req.Name, now),
				Name:            req.Name,
				APIKey:          req.APIKey,
				SecondaryAPIKey: req.SecondaryAPIKey,
				Vocabulary:      glossary.Glossary{},
				CreatedAt:       now,
				UpdatedAt:       now,
			}
			if err := insertProfile(conn, saved); err != nil {
				return err
			}
		} else {
			if owner != "" && owner != req.EditID {
				return fmt.Errorf("%w: %s", ErrDuplicateName, req.Name)
			}

			saved, err = getProfile(conn, req.EditID)
			if err != nil {
				return err
			}

			saved.Name = req.Name
			saved.APIKey = req.APIKey
			saved.SecondaryAPIKey = req.SecondaryAPIKey
			saved.UpdatedAt = now

			err = sqlitex.Execute(conn,
				`UPDATE profiles SET name = ?, api_key = ?, secondary_api_key = ?, updated_at = ? WHERE id = ?`,
				&sqlitex.ExecOptions{
					Args: []any{saved.Name, saved.APIKey, saved.SecondaryAPIKey, now.UnixMilli(), saved.ID},
				})
			if err != nil {
				return fmt.Errorf("failed to update profile: %w", err)
			}
		}

		return setCurrent(conn, saved.ID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Saved profile",
		zap.String("id", saved.ID),
		zap.Bool("edited", req.EditID != ""))

	return saved, nil
}

// Get returns the profile with the given id.
func (s *Store) Get(ctx context.Context, id string) (*Profile, error) {
	var p *Profile
	err := s.withConn(ctx, func(conn *sqlite.Conn) error {
		var err error
		p, err = getProfile(conn, id)
		return err
	})
	return p, err
}

// List returns all profiles in creation order.
func (s *Store) List(ctx context.Context) ([]*Profile, error) {
	var profiles []*Profile
	err := s.withConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn,
			"SELECT "+profileFields+" FROM profiles ORDER BY created_at, rowid",
			&sqlitex.ExecOptions{
				ResultFunc: func(stmt *sqlite.Stmt) error {
					p, err := scanProfile(stmt)
					if err != nil {
						return err
					}
					profiles = append(profiles, p)
					return nil
				},
			})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}

// Delete removes a profile and clears the current pointer if it referenced it.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.withConn(ctx, func(conn *sqlite.Conn) (err error) {
		defer sqlitex.Save(conn)(&err)

		if err := sqlitex.Execute(conn, "DELETE FROM profiles WHERE id = ?", &sqlitex.ExecOptions{
			Args: []any{id},
		}); err != nil {
			return fmt.Errorf("failed to delete profile: %w", err)
		}

		if conn.Changes() == 0 {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}

		return sqlitex.Execute(conn, "DELETE FROM settings WHERE key = ? AND value = ?", &sqlitex.ExecOptions{
			Args: []any{currentKey, id},
		})
	})
}

// Current returns the current profile or ErrNotConfigured when none is selected.
func (s *Store) Current(ctx context.Context) (*Profile, error) {
	var p *Profile
	err := s.withConn(ctx, func(conn *sqlite.Conn) error {
		id, err := currentID(conn)
		if err != nil {
			return err
		}
		if id == "" {
			return ErrNotConfigured
		}

		p, err = getProfile(conn, id)
		if errors.Is(err, ErrNotFound) {
			return ErrNotConfigured
		}
		return err
	})
	return p, err
}

// Select makes the profile with the given id current.
func (s *Store) Select(ctx context.Context, id string) error {
	return s.withConn(ctx, func(conn *sqlite.Conn) (err error) {
		defer sqlitex.Save(conn)(&err)

		if _, err := getProfile(conn, id); err != nil {
			return err
		}
		return setCurrent(conn, id)
	})
}

// EditVocabulary applies fn to the glossary of a profile and stores the result.
func (s *Store) EditVocabulary(
	ctx context.Context, id string, fn func(glossary.Glossary) (glossary.Glossary, error),
) (glossary.Glossary, error) {
	var updated glossary.Glossary
	err := s.withConn(ctx, func(conn *sqlite.Conn) (err error) {
		defer sqlitex.Save(conn)(&err)

		p, err := getProfile(conn, id)
		if err != nil {
			return err
		}

		updated, err = fn(p.Vocabulary)
		if err != nil {
			return err
		}

		data, err := sonic.Marshal(updated)
		if err != nil {
			return fmt.Errorf("failed to encode vocabulary: %w", err)
		}

		return sqlitex.Execute(conn, "UPDATE profiles SET vocabulary = ?, updated_at = ? WHERE id = ?",
			&sqlitex.ExecOptions{Args: []any{string(data), s.now().UnixMilli(), id}})
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func insertProfile(conn *sqlite.Conn, p *Profile) error {
	vocabulary := p.Vocabulary
	if vocabulary == nil {
		vocabulary = glossary.Glossary{}
	}

	data, err := sonic.Marshal(vocabulary)
	if err != nil {
		return fmt.Errorf("failed to encode vocabulary: %w", err)
	}

	err = sqlitex.Execute(conn,
		"INSERT INTO profiles ("+profileFields+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		&sqlitex.ExecOptions{
			Args: []any{
				p.ID, p.Name, p.APIKey, p.SecondaryAPIKey, string(data),
				p.CreatedAt.UnixMilli(), p.UpdatedAt.UnixMilli(),
			},
		})
	if err != nil {
		return fmt.Errorf("failed to insert profile: %w", err)
	}
	return nil
}

func getProfile(conn *sqlite.Conn, id string) (*Profile, error) {
	var p *Profile
	err := sqlitex.Execute(conn, "SELECT "+profileFields+" FROM profiles WHERE id = ?", &sqlitex.ExecOptions{
		Args: []any{id},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			var err error
			p, err = scanProfile(stmt)
			return err
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return p, nil
}

func profileIDByName(conn *sqlite.Conn, name string) (string, error) {
	var id string
	err := sqlitex.Execute(conn, "SELECT id FROM profiles WHERE name = ?", &sqlitex.ExecOptions{
		Args: []any{name},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			id = stmt.ColumnText(0)
			return nil
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to look up profile name: %w", err)
	}
	return id, nil
}

func scanProfile(stmt *sqlite.Stmt) (*Profile, error) {
	p := &Profile{
		ID:              stmt.ColumnText(0),
		Name:            stmt.ColumnText(1),
		APIKey:          stmt.ColumnText(2),
		SecondaryAPIKey: stmt.ColumnText(3),
		CreatedAt:       time.UnixMilli(stmt.ColumnInt64(5)),
		UpdatedAt:       time.UnixMilli(stmt.ColumnInt64(6)),
	}

	if err := sonic.UnmarshalString(stmt.ColumnText(4), &p.Vocabulary); err != nil {
		return nil, fmt.Errorf("failed to decode vocabulary of %s: %w", p.ID, err)
	}
	if p.Vocabulary == nil {
		p.Vocabulary = glossary.Glossary{}
	}
	return p, nil
}

func currentID(conn *sqlite.Conn) (string, error) {
	var id string
	err := sqlitex.Execute(conn, "SELECT value FROM settings WHERE key = ?", &sqlitex.ExecOptions{
		Args: []any{currentKey},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			id = stmt.ColumnText(0)
			return nil
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to load current profile: %w", err)
	}
	return id, nil
}

func setCurrent(conn *sqlite.Conn, id string) error {
	err := sqlitex.Execute(conn,
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		&sqlitex.ExecOptions{Args: []any{currentKey, id}})
	if err != nil {
		return fmt.Errorf("failed to set current profile: %w", err)
	}
	return nil
}
