package session

import (
	"github.com/bhataakib02/retail-app/models"
)

// Flash categories used by the handlers.
const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
	FlashWarning = "warning"
	FlashInfo    = "info"
)

type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// Session is the per-browser state kept server side and addressed by the
// signed cookie. It owns the shopping cart.
type Session struct {
	ID       string      `json:"-"`
	LoggedIn bool        `json:"loggedin"`
	UserID   uint        `json:"id,omitempty"`
	Username string      `json:"username,omitempty"`
	Role     string      `json:"role,omitempty"`
	IsAdmin  int         `json:"is_admin"`
	Cart     models.Cart `json:"cart"`
	Flashes  []Flash     `json:"flashes,omitempty"`
}

func New(id string) *Session {
	return &Session{ID: id}
}

// Login records the authenticated user. The cart survives login.
func (s *Session) Login(u *models.User) {
	s.LoggedIn = true
	s.UserID = u.ID
	s.Username = u.Username
	s.Role = u.Role
	s.IsAdmin = 0
	if u.IsAdmin() {
		s.IsAdmin = 1
	}
}

// Clear drops every field, cart included.
func (s *Session) Clear() {
	*s = Session{ID: s.ID}
}

func (s *Session) HasRole(role string) bool {
	return s.LoggedIn && s.Role == role
}

func (s *Session) AddFlash(category, message string) {
	s.Flashes = append(s.Flashes, Flash{Category: category, Message: message})
}

// PopFlashes returns pending flashes and forgets them.
func (s *Session) PopFlashes() []Flash {
	f := s.Flashes
	s.Flashes = nil
	return f
}
