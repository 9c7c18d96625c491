package store

import (
	"context"
	"strings"

	"tirelire/internal/core"
	applog "tirelire/internal/log"
)

// ProfileUpdate carries the mutable profile and preference fields. Zero
// values for FirstName/LastName/Email leave the stored value alone;
// preferences are always overwritten as a block when the currency is set.
type ProfileUpdate struct {
	FirstName   string
	LastName    string
	Email       string
	Avatar      string
	Preferences core.Preferences
}

// UpdateProfile overwrites the user's mutable fields in place. Changing the
// email re-checks uniqueness against every other user so the document-wide
// invariant holds across the save.
func (s *Store) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*core.User, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	loadedRev := doc.Metadata.Revision

	user, err := s.resolveUser(doc, userID)
	if err != nil {
		return nil, err
	}

	if email := strings.TrimSpace(update.Email); email != "" && email != user.Email {
		for i := range doc.Users {
			if doc.Users[i].ID != userID && doc.Users[i].Email == email {
				return nil, core.ErrDuplicateUser
			}
		}
		user.Email = email
	}
	if v := strings.TrimSpace(update.FirstName); v != "" {
		user.FirstName = v
	}
	if v := strings.TrimSpace(update.LastName); v != "" {
		user.LastName = v
	}
	if v := strings.TrimSpace(update.Avatar); v != "" {
		user.Avatar = v
	}
	if update.Preferences.Currency.IsValid() {
		user.Preferences = update.Preferences
	}

	if err := s.save(ctx, doc, loadedRev); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Profile updated",
		applog.FieldUserID, userID,
		applog.FieldOperation, applog.OpUpdate)

	updated := *user
	return &updated, nil
}
