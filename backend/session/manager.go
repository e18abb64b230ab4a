// Package session binds opaque browser-session cookies to authenticated
// identities. The identity snapshot cached in the session is authoritative
// for the session's lifetime; it is not re-read from the credential store
// on every request.
package session

import (
	"errors"
	"fmt"

	"classroom/backend/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// Identity is the (id, username, role) triple bound to a session.
type Identity struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type Manager struct {
	Store *session.Store
	users *store.Users
}

// NewManager builds a session manager over the given storage. A nil
// storage keeps sessions in process memory, so they vanish on restart;
// passing a Redis-backed fiber.Storage moves them to an external cache.
func NewManager(users *store.Users, storage fiber.Storage) *Manager {
	cfg := session.Config{
		KeyLookup:         "cookie:session_id",
		KeyGenerator:      uuid.NewString,
		CookieHTTPOnly:    true,
		CookieSameSite:    "Lax",
		CookieSessionOnly: true,
	}
	if storage != nil {
		cfg.Storage = storage
	}
	return &Manager{Store: session.New(cfg), users: users}
}

// Authenticate verifies the credential and, on success, binds the identity
// to the browser session. The raw password is never retained; bcrypt's
// compare does not short-circuit on a fast path.
func (m *Manager) Authenticate(c *fiber.Ctx, username, password string) (Identity, error) {
	user, err := m.users.FindByUsername(username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Identity{}, ErrInvalidCredentials
		}
		return Identity{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return Identity{}, ErrInvalidCredentials
	}

	sess, err := m.Store.Get(c)
	if err != nil {
		return Identity{}, err
	}
	if err := sess.Regenerate(); err != nil {
		return Identity{}, err
	}
	sess.Set("user_id", user.ID)
	sess.Set("username", user.Username)
	sess.Set("role", user.Role)
	if err := sess.Save(); err != nil {
		return Identity{}, err
	}

	return Identity{ID: user.ID, Username: user.Username, Role: user.Role}, nil
}

// Resolve returns the cached identity snapshot for the current browser
// session, or false if unauthenticated.
func (m *Manager) Resolve(c *fiber.Ctx) (Identity, bool) {
	sess, err := m.Store.Get(c)
	if err != nil {
		return Identity{}, false
	}

	id, ok := sess.Get("user_id").(uint)
	if !ok {
		return Identity{}, false
	}
	username, _ := sess.Get("username").(string)
	role, _ := sess.Get("role").(string)
	return Identity{ID: id, Username: username, Role: role}, true
}

// Destroy clears the session binding (logout).
func (m *Manager) Destroy(c *fiber.Ctx) error {
	sess, err := m.Store.Get(c)
	if err != nil {
		return err
	}
	return sess.Destroy()
}

// Intents tracks which lessons the current session has a pending
// completion-verification dialog open for. Pending state lives only in the
// session: navigating away or restarting the process drops it, which is
// exactly the cancellation semantics the workflow wants.
type Intents struct {
	sess *session.Session
}

func (m *Manager) Intents(c *fiber.Ctx) (*Intents, error) {
	sess, err := m.Store.Get(c)
	if err != nil {
		return nil, err
	}
	return &Intents{sess: sess}, nil
}

func pendingKey(lessonID uint) string {
	return fmt.Sprintf("pending_lesson_%d", lessonID)
}

func (i *Intents) Set(lessonID uint) error {
	i.sess.Set(pendingKey(lessonID), true)
	return i.sess.Save()
}

func (i *Intents) Clear(lessonID uint) error {
	i.sess.Delete(pendingKey(lessonID))
	return i.sess.Save()
}

func (i *Intents) Has(lessonID uint) bool {
	pending, _ := i.sess.Get(pendingKey(lessonID)).(bool)
	return pending
}
