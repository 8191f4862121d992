package profile

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robalyx/dolmetscher/internal/glossary"
)

var (
	// ErrNotFound is returned when a profile id does not exist.
	ErrNotFound = errors.New("profile not found")
	// ErrDuplicateName is returned when a new profile reuses an existing name.
	ErrDuplicateName = errors.New("profile name already exists")
	// ErrMissingName is returned when a profile has no name.
	ErrMissingName = errors.New("profile name is required")
	// ErrMissingAPIKey is returned when a profile has no primary credential.
	ErrMissingAPIKey = errors.New("api key is required")
	// ErrNotConfigured is returned when no current profile with a credential exists.
	ErrNotConfigured = errors.New("no api key configured")
	// ErrNothingToExport is returned when exporting an empty store.
	ErrNothingToExport = errors.New("no profiles to export")
	// ErrInvalidImport is returned when an import file cannot be read.
	ErrInvalidImport = errors.New("invalid profile import file")
)

// Profile is a named set of credentials with its glossary.
type Profile struct {
	ID              string            `json:"-"`
	Name            string            `json:"name"`
	APIKey          string            `json:"apiKey"`
	SecondaryAPIKey string            `json:"secondaryApiKey,omitempty"`
	Vocabulary      glossary.Glossary `json:"vocabulary"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// SaveRequest creates a profile or, when EditID is set, updates one.
type SaveRequest struct {
	EditID          string
	Name            string
	APIKey          string
	SecondaryAPIKey string
}

// validate trims the request and checks required fields.
func (r *SaveRequest) validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.APIKey = strings.TrimSpace(r.APIKey)
	r.SecondaryAPIKey = strings.TrimSpace(r.SecondaryAPIKey)

	if r.Name == "" {
		return ErrMissingName
	}
	if r.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// Credentials are the values a request needs from the current profile.
type Credentials struct {
	ProfileID string
	Primary   string
	Secondary string
	Glossary  glossary.Glossary
}

// newID returns an id of the form name_unixMillis_random.
func newID(name string, now time.Time) string {
	return fmt.Sprintf("%s_%d_%s", name, now.UnixMilli(), strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
}

// ExportFileName is the default file name of a profile export.
func ExportFileName(now time.Time) string {
	return "translation_users_" + now.Format(time.DateOnly) + ".json"
}

// VocabularyFileName is the default file name of a glossary export.
func VocabularyFileName(profileName string, now time.Time) string {
	return profileName + "_词汇表_" + now.Format(time.DateOnly) + ".json"
}
