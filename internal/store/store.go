package store

import (
	"errors"

	"github.com/studydrill/backend/internal/domain/history"
	"github.com/studydrill/backend/internal/domain/question"
	"github.com/studydrill/backend/internal/domain/settings"
)

var (
	ErrNotFound = errors.New("not found")
)

// Blob keys for the three persisted documents. They double as job IDs on
// the persistence queue.
const (
	KeyBank     = "bank"
	KeyHistory  = "history"
	KeySettings = "settings"
)

// Store persists the engine's three documents as independently keyed JSON
// blobs. The engine treats saves as fire-and-forget effects; loads happen
// once at startup, with the caller substituting defaults on any error.
type Store interface {
	SaveBank(bank []question.Question) error
	LoadBank() ([]question.Question, error)
	SaveHistory(entries []history.Entry) error
	LoadHistory() ([]history.Entry, error)
	SaveSettings(s settings.Settings) error
	LoadSettings() (settings.Settings, error)
	Close() error
}
