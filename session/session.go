// Package session tracks the signed-in user for the lifetime of the process.
package session

import (
	"errors"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"venuespace-cli/model"
	"venuespace-cli/service"
	"venuespace-cli/store"
)

var ErrClosed = errors.New("session closed")

// Backend persists the signed-in user between runs.
type Backend interface {
	Load() (model.User, bool, error)
	Save(model.User) error
	Clear() error
}

type fileBackend struct{}

func (fileBackend) Load() (model.User, bool, error) { return store.LoadSession() }
func (fileBackend) Save(u model.User) error         { return store.SaveSession(u) }
func (fileBackend) Clear() error                    { return store.ClearSession() }

// FileBackend stores the session under the user config dir.
var FileBackend Backend = fileBackend{}

type Manager struct {
	mu       sync.RWMutex
	backend  Backend
	log      *logrus.Logger
	user     model.User
	signedIn bool
	closed   bool
}

func NewManager(backend Backend, log *logrus.Logger) *Manager {
	if backend == nil {
		backend = FileBackend
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Manager{backend: backend, log: log}
}

// Init restores the persisted user, if any. A corrupt session file is
// logged and treated as signed out.
func (m *Manager) Init() error {
	user, ok, err := m.backend.Load()
	if err != nil {
		m.log.WithError(err).Warn("could not restore session")
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.user, m.signedIn = user, ok
	if ok {
		m.log.WithField("email", user.Email).Debug("session restored")
	}
	return nil
}

func (m *Manager) CurrentUser() (model.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user, m.signedIn
}

// Login validates user and makes it the current session.
func (m *Manager) Login(user model.User) (model.User, error) {
	user.Name = strings.TrimSpace(user.Name)
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Role == "" {
		user.Role = model.RoleGuest
	}
	if err := service.ValidateStruct(user); err != nil {
		return model.User{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return model.User{}, ErrClosed
	}
	if err := m.backend.Save(user); err != nil {
		return model.User{}, err
	}
	m.user, m.signedIn = user, true
	m.log.WithFields(logrus.Fields{"email": user.Email, "role": string(user.Role)}).Info("signed in")
	return user, nil
}

func (m *Manager) Logout() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if err := m.backend.Clear(); err != nil {
		return err
	}
	if m.signedIn {
		m.log.WithField("email", m.user.Email).Info("signed out")
	}
	m.user, m.signedIn = model.User{}, false
	return nil
}

// Close ends the session object. The persisted user is kept for the next
// run.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}
