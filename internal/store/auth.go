package store

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"tirelire/internal/core"
	applog "tirelire/internal/log"
)

// DefaultAccountName is the name of the account every registration creates.
const DefaultAccountName = "Compte Principal"

// Registration carries the validated form fields for a new user.
type Registration struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Currency  core.Currency
}

// Validate checks the registration fields before the store is touched.
func (r Registration) Validate() error {
	if strings.TrimSpace(r.Username) == "" || strings.TrimSpace(r.Email) == "" {
		return fmt.Errorf("%w: username and email are required", core.ErrInvalidRegistration)
	}
	if len(r.Password) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", core.ErrInvalidRegistration)
	}
	if !strings.Contains(r.Email, "@") {
		return fmt.Errorf("%w: malformed email", core.ErrInvalidRegistration)
	}
	if !r.Currency.IsValid() {
		return fmt.Errorf("%w: unsupported currency %q", core.ErrInvalidRegistration, r.Currency)
	}
	return nil
}

// Register appends a new user, their empty bundle with one default main
// account, and a fresh session, all in one save. Username and email must be
// unique (case-sensitive exact match) across all existing users.
func (s *Store) Register(ctx context.Context, reg Registration) (*Snapshot, error) {
	doc, err := s.loadOrInit(ctx, reg.Currency)
	if err != nil {
		return nil, err
	}
	loadedRev := doc.Metadata.Revision

	for i := range doc.Users {
		if doc.Users[i].Username == reg.Username || doc.Users[i].Email == reg.Email {
			return nil, core.ErrDuplicateUser
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := core.User{
		ID:           s.newID(),
		Username:     reg.Username,
		Email:        reg.Email,
		PasswordHash: string(hash),
		FirstName:    reg.FirstName,
		LastName:     reg.LastName,
		Preferences: core.Preferences{
			Currency:      reg.Currency,
			Language:      "fr",
			Theme:         "light",
			Notifications: true,
		},
		CreatedAt: now,
		LastLogin: now,
		IsActive:  true,
	}
	doc.Users = append(doc.Users, user)

	doc.UserData[user.ID] = &core.Bundle{
		Accounts: []core.Account{
			{
				ID:          s.newID(),
				UserID:      user.ID,
				Name:        DefaultAccountName,
				Type:        core.AccountMain,
				Balance:     core.Money{},
				Currency:    reg.Currency,
				CreatedAt:   now,
				LastUpdated: now,
			},
		},
		Transactions: []core.Transaction{},
		SavingsGoals: []core.SavingsGoal{},
		Budgets:      []core.Budget{},
		Categories:   []core.Category{},
	}

	session := s.newSession(user.ID, false)
	doc.Sessions = append(doc.Sessions, session)
	doc.Metadata.TotalUsers = len(doc.Users)

	if err := s.save(ctx, doc, loadedRev); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "User registered",
		applog.FieldUserID, user.ID,
		applog.FieldUsername, user.Username,
		applog.FieldOperation, applog.OpRegister)

	return &Snapshot{User: user, Bundle: copyBundle(doc.UserData[user.ID]), Session: session}, nil
}

// Login verifies the credential and appends a new session. Existing
// sessions for the user are left untouched; several may coexist.
func (s *Store) Login(ctx context.Context, username, password string, remember bool) (*Snapshot, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	loadedRev := doc.Metadata.Revision

	var user *core.User
	for i := range doc.Users {
		if doc.Users[i].Username == username {
			user = &doc.Users[i]
			break
		}
	}
	if user == nil {
		return nil, core.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, core.ErrInvalidCredentials
	}

	bundle, err := s.resolveUserData(doc, user.ID)
	if err != nil {
		return nil, err
	}

	user.LastLogin = s.now()
	session := s.newSession(user.ID, remember)
	doc.Sessions = append(doc.Sessions, session)

	if err := s.save(ctx, doc, loadedRev); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "User logged in",
		applog.FieldUserID, user.ID,
		applog.FieldSessionID, session.SessionID,
		applog.FieldOperation, applog.OpLogin)

	return &Snapshot{User: *user, Bundle: copyBundle(bundle), Session: session}, nil
}

// Logout resolves the active session and invalidates every session
// belonging to that user.
func (s *Store) Logout(ctx context.Context) error {
	doc, err := s.Load(ctx)
	if err != nil {
		return err
	}
	session, err := s.resolveActiveSession(doc)
	if err != nil {
		return err
	}
	return s.invalidateAllSessions(ctx, doc, session.UserID)
}

// InvalidateAllSessions marks every session of the given user inactive.
func (s *Store) InvalidateAllSessions(ctx context.Context, userID string) error {
	doc, err := s.Load(ctx)
	if err != nil {
		return err
	}
	return s.invalidateAllSessions(ctx, doc, userID)
}

func (s *Store) invalidateAllSessions(ctx context.Context, doc *core.Document, userID string) error {
	loadedRev := doc.Metadata.Revision

	for i := range doc.Sessions {
		if doc.Sessions[i].UserID == userID {
			doc.Sessions[i].IsActive = false
		}
	}

	if err := s.save(ctx, doc, loadedRev); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Sessions invalidated",
		applog.FieldUserID, userID,
		applog.FieldOperation, applog.OpLogout)
	return nil
}

func (s *Store) newSession(userID string, remember bool) core.Session {
	now := s.now()
	ttl := s.sessionTTL
	if remember {
		ttl = s.rememberTTL
	}
	return core.Session{
		UserID:    userID,
		SessionID: s.newID(),
		LoginTime: now,
		ExpiresAt: now.Add(ttl),
		IsActive:  true,
	}
}
