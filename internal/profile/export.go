package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// ExportVersion is the version written into profile exports.
const ExportVersion = "1.0"

// Export is the file format of a profile backup.
type Export struct {
	Users      map[string]*Profile `json:"users"`
	ExportedAt time.Time           `json:"exportedAt"`
	Version    string              `json:"version"`
}

// ImportResult reports how many profiles an import added or skipped.
type ImportResult struct {
	Added   int
	Skipped int
}

// Export encodes every profile as an indented JSON document.
func (s *Store) Export(ctx context.Context) ([]byte, error) {
	profiles, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	if len(profiles) == 0 {
		return nil, ErrNothingToExport
	}

	export := Export{
		Users:      make(map[string]*Profile, len(profiles)),
		ExportedAt: s.now().UTC(),
		Version:    ExportVersion,
	}
	for _, p := range profiles {
		export.Users[p.ID] = p
	}

	data, err := sonic.ConfigStd.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}
	return data, nil
}

// Import adds the profiles of an export. Profiles whose id or name already
// exists are skipped.
func (s *Store) Import(ctx context.Context, data []byte) (ImportResult, error) {
	var export Export
	if err := sonic.Unmarshal(data, &export); err != nil {
		return ImportResult{}, fmt.Errorf("%w: %w", ErrInvalidImport, err)
	}

	if export.Users == nil {
		return ImportResult{}, fmt.Errorf("%w: missing users", ErrInvalidImport)
	}

	var result ImportResult
	err := s.withConn(ctx, func(conn *sqlite.Conn) (err error) {
		defer sqlitex.Save(conn)(&err)

		for id, p := range export.Users {
			if p == nil || p.Name == "" || p.APIKey == "" {
				result.Skipped++
				continue
			}

			if _, err := getProfile(conn, id); err == nil {
				result.Skipped++
				continue
			}

			owner, err := profileIDByName(conn, p.Name)
			if err != nil {
				return err
			}
			if owner != "" {
				result.Skipped++
				continue
			}

			p.ID = id
			if p.CreatedAt.IsZero() {
				p.CreatedAt = s.now()
			}
			if p.UpdatedAt.IsZero() {
				p.UpdatedAt = p.CreatedAt
			}

			if err := insertProfile(conn, p); err != nil {
				return err
			}
			result.Added++
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}

	return result, nil
}
