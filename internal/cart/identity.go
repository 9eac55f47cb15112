package cart

import (
	"strings"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

// Identity names the owner of a cart: a logged-in user or an anonymous
// session. Exactly one side is ever set, enforced by the constructors.
type Identity struct {
	userID    string
	sessionID string
}

// ForUser builds the identity of a logged-in user's cart.
func ForUser(userID string) Identity {
	return Identity{userID: strings.TrimSpace(userID)}
}

// ForGuest builds the identity of an anonymous session cart.
func ForGuest(sessionID string) Identity {
	return Identity{sessionID: strings.TrimSpace(sessionID)}
}

// ParseIdentity validates the raw pair coming off the wire. Exactly one of
// the two values must be non-empty.
func ParseIdentity(userID, sessionID string) (Identity, error) {
	userID = strings.TrimSpace(userID)
	sessionID = strings.TrimSpace(sessionID)

	switch {
	case userID == "" && sessionID == "":
		return Identity{}, pkgerrors.New(pkgerrors.CodeValidation, "either userId or sessionId is required")
	case userID != "" && sessionID != "":
		return Identity{}, pkgerrors.New(pkgerrors.CodeValidation, "userId and sessionId are mutually exclusive")
	case userID != "":
		return ForUser(userID), nil
	default:
		return ForGuest(sessionID), nil
	}
}

// IsUser reports whether the identity belongs to a logged-in user.
func (i Identity) IsUser() bool {
	return i.userID != ""
}

// IsGuest reports whether the identity belongs to an anonymous session.
func (i Identity) IsGuest() bool {
	return i.sessionID != ""
}

// IsZero reports whether neither side is set.
func (i Identity) IsZero() bool {
	return i.userID == "" && i.sessionID == ""
}

// UserID returns the user side of the identity, when set.
func (i Identity) UserID() (string, bool) {
	return i.userID, i.userID != ""
}

// SessionID returns the session side of the identity, when set.
func (i Identity) SessionID() (string, bool) {
	return i.sessionID, i.sessionID != ""
}

// String renders the identity for log fields.
func (i Identity) String() string {
	if i.IsUser() {
		return "user:" + i.userID
	}
	if i.IsGuest() {
		return "session:" + i.sessionID
	}
	return "none"
}
