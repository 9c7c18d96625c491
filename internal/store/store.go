// Package store is the single owner of the persisted document. Every
// operation follows the same cycle: load the whole document, locate the
// active session and the acting user's records, mutate in memory, then
// write the whole document back in one save. No other package touches the
// blob storage directly.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tirelire/internal/core"
	applog "tirelire/internal/log"
	"tirelire/internal/storage"
)

const appVersion = "2.0.0"

// Store implements the document access contract over a blob store.
type Store struct {
	blobs  storage.BlobStore
	logger *applog.Logger

	sessionTTL  time.Duration
	rememberTTL time.Duration

	// Overridable for tests.
	now   func() time.Time
	newID func() string
}

// Options configures a Store.
type Options struct {
	SessionTTL  time.Duration
	RememberTTL time.Duration
	Logger      *applog.Logger
}

func New(blobs storage.BlobStore, opts Options) *Store {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	if opts.RememberTTL <= 0 {
		opts.RememberTTL = 7 * 24 * time.Hour
	}
	if opts.Logger == nil {
		opts.Logger = applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentStore)
	}
	return &Store{
		blobs:       blobs,
		logger:      opts.Logger,
		sessionTTL:  opts.SessionTTL,
		rememberTTL: opts.RememberTTL,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// Snapshot is the resolved view handed to read-only callers: the acting
// user, their bundle and the session that authenticated them. It is a deep
// copy of the loaded document's records; mutating it has no effect on
// stored state.
type Snapshot struct {
	User    core.User
	Bundle  core.Bundle
	Session core.Session
}

// Load reads and decodes the stored document. An absent document means no
// one ever registered on this store, which callers requiring an
// authenticated context must treat as not authenticated.
func (s *Store) Load(ctx context.Context) (*core.Document, error) {
	body, err := s.blobs.Read(ctx, core.StorageKey)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: no stored document", core.ErrNotAuthenticated)
	}
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	var doc core.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if doc.UserData == nil {
		doc.UserData = make(map[string]*core.Bundle)
	}
	return &doc, nil
}

// loadOrInit loads the document, seeding a fresh one on first registration.
func (s *Store) loadOrInit(ctx context.Context, defaultCurrency core.Currency) (*core.Document, error) {
	doc, err := s.Load(ctx)
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, core.ErrNotAuthenticated) {
		return nil, err
	}

	now := s.now()
	return &core.Document{
		Users:    []core.User{},
		Sessions: []core.Session{},
		UserData: make(map[string]*core.Bundle),
		Settings: core.Settings{
			AppVersion:      appVersion,
			DefaultCurrency: defaultCurrency,
			SessionTimeout:  s.sessionTTL.Milliseconds(),
		},
		Metadata: core.Metadata{
			Version:    appVersion,
			LastBackup: now.UTC().Format(time.RFC3339),
			TotalUsers: 0,
			CreatedAt:  now.UTC().Format(time.RFC3339),
		},
	}, nil
}

// save serializes and overwrites the whole stored document. The write is
// last-writer-wins over the entire document; the revision check only turns
// a silently lost update into an ErrConflict. loadedRev is the revision the
// mutation cycle started from.
func (s *Store) save(ctx context.Context, doc *core.Document, loadedRev int64) error {
	stored, err := s.blobs.Read(ctx, core.StorageKey)
	if err != nil && !errors.Is(err, storage.ErrKeyNotFound) {
		return fmt.Errorf("read stored revision: %w", err)
	}
	if err == nil {
		var current core.Document
		if jsonErr := json.Unmarshal(stored, &current); jsonErr == nil {
			if current.Metadata.Revision != loadedRev {
				return fmt.Errorf("%w: loaded revision %d, stored revision %d",
					core.ErrConflict, loadedRev, current.Metadata.Revision)
			}
		}
	}

	doc.Metadata.Revision = loadedRev + 1
	doc.Metadata.LastBackup = s.now().UTC().Format(time.RFC3339)

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := s.blobs.Write(ctx, core.StorageKey, body); err != nil {
		return fmt.Errorf("write document: %w", err)
	}

	s.logger.DebugContext(ctx, "Document saved",
		applog.FieldRevision, doc.Metadata.Revision,
		applog.FieldOperation, applog.OpSave)
	return nil
}

// resolveActiveSession returns the first session in document order that is
// active and unexpired. Which session wins when several are valid is
// deliberately left at "first in storage order".
func (s *Store) resolveActiveSession(doc *core.Document) (*core.Session, error) {
	now := s.now()
	for i := range doc.Sessions {
		if doc.Sessions[i].IsValid(now) {
			return &doc.Sessions[i], nil
		}
	}
	return nil, fmt.Errorf("%w: no active session", core.ErrNotAuthenticated)
}

// resolveUser finds a user by id. A missing user behind a live session is
// document corruption and a hard failure.
func (s *Store) resolveUser(doc *core.Document, userID string) (*core.User, error) {
	if u := doc.FindUser(userID); u != nil {
		return u, nil
	}
	return nil, fmt.Errorf("%w: id %s", core.ErrUserNotFound, userID)
}

// resolveUserData finds the per-user bundle, failing the same way as
// resolveUser when absent.
func (s *Store) resolveUserData(doc *core.Document, userID string) (*core.Bundle, error) {
	if b, ok := doc.UserData[userID]; ok && b != nil {
		return b, nil
	}
	return nil, fmt.Errorf("%w: id %s", core.ErrUserDataNotFound, userID)
}

// CurrentSnapshot loads the document and resolves the active session down
// to the acting user and their bundle.
func (s *Store) CurrentSnapshot(ctx context.Context) (*Snapshot, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return s.snapshot(doc)
}

func (s *Store) snapshot(doc *core.Document) (*Snapshot, error) {
	session, err := s.resolveActiveSession(doc)
	if err != nil {
		return nil, err
	}
	user, err := s.resolveUser(doc, session.UserID)
	if err != nil {
		return nil, err
	}
	bundle, err := s.resolveUserData(doc, session.UserID)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		User:    *user,
		Bundle:  copyBundle(bundle),
		Session: *session,
	}, nil
}

func copyBundle(b *core.Bundle) core.Bundle {
	out := core.Bundle{
		Accounts:     make([]core.Account, len(b.Accounts)),
		Transactions: make([]core.Transaction, len(b.Transactions)),
		SavingsGoals: make([]core.SavingsGoal, len(b.SavingsGoals)),
		Budgets:      make([]core.Budget, len(b.Budgets)),
		Categories:   make([]core.Category, len(b.Categories)),
	}
	copy(out.Accounts, b.Accounts)
	copy(out.Transactions, b.Transactions)
	copy(out.SavingsGoals, b.SavingsGoals)
	copy(out.Budgets, b.Budgets)
	copy(out.Categories, b.Categories)
	return out
}
