package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/bhataakib02/retail-app/session"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionCookieName is the cookie carrying the signed session id.
const SessionCookieName = "retail_session"

const (
	sessionKey        = "session"
	sessionManagerKey = "session_manager"
)

// SessionManager loads the browser session before a handler runs and
// persists it afterwards.
type SessionManager struct {
	store  session.Store
	codec  *session.Codec
	ttl    time.Duration
	secure bool
	log    *zap.Logger
}

func NewSessionManager(store session.Store, codec *session.Codec, ttl time.Duration, secure bool, log *zap.Logger) *SessionManager {
	return &SessionManager{store: store, codec: codec, ttl: ttl, secure: secure, log: log}
}

// Middleware attaches the session to the request. A missing, tampered or
// expired cookie starts a fresh anonymous session. The cookie is written
// before the handler so redirects carry it.
func (m *SessionManager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := m.load(c)
		c.Set(sessionKey, sess)
		c.Set(sessionManagerKey, m)
		m.setCookie(c, sess.ID)

		c.Next()

		// re-read: the handler may have rotated the id
		sess = CurrentSession(c)
		if err := m.store.Save(c.Request.Context(), sess); err != nil {
			m.log.Error("Failed to save session", zap.String("path", c.Request.URL.Path), zap.Error(err))
		}
	}
}

func (m *SessionManager) load(c *gin.Context) *session.Session {
	raw, err := c.Cookie(SessionCookieName)
	if err != nil || raw == "" {
		return session.New(uuid.NewString())
	}
	sid, err := m.codec.Decode(raw)
	if err != nil {
		m.log.Debug("Discarding invalid session cookie", zap.Error(err))
		return session.New(uuid.NewString())
	}
	sess, err := m.store.Load(c.Request.Context(), sid)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			m.log.Warn("Failed to load session", zap.Error(err))
		}
		return session.New(uuid.NewString())
	}
	return sess
}

func (m *SessionManager) setCookie(c *gin.Context, sid string) {
	value, err := m.codec.Encode(sid)
	if err != nil {
		m.log.Error("Failed to sign session cookie", zap.Error(err))
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, value, int(m.ttl.Seconds()), "/", "", m.secure, true)
}

// CurrentSession returns the request's session. Outside the middleware it
// returns a detached empty session.
func CurrentSession(c *gin.Context) *session.Session {
	if v, ok := c.Get(sessionKey); ok {
		if sess, ok := v.(*session.Session); ok {
			return sess
		}
	}
	sess := session.New(uuid.NewString())
	c.Set(sessionKey, sess)
	return sess
}

// RotateSession moves the session to a new id and drops the old one from
// the store. Call it on login and logout before writing the response.
func RotateSession(c *gin.Context) {
	sess := CurrentSession(c)
	v, ok := c.Get(sessionManagerKey)
	if !ok {
		sess.ID = uuid.NewString()
		return
	}
	m := v.(*SessionManager)
	if err := m.store.Delete(c.Request.Context(), sess.ID); err != nil {
		m.log.Warn("Failed to delete previous session", zap.Error(err))
	}
	sess.ID = uuid.NewString()
	m.setCookie(c, sess.ID)
}
