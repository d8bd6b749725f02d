package delivery_http

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	sessionCookieName = "session"
	userIDKey         = "uid"
)

// Session wraps the cookie session with typed access to the logged-in user.
type Session struct {
	sessions.Session
}

func LoadSession(c *gin.Context) *Session {
	return &Session{
		Session: sessions.Default(c),
	}
}

// UserID returns the logged-in user's id, or 0 for anonymous visitors.
func (s *Session) UserID() int64 {
	id := s.Get(userIDKey)
	if id == nil {
		return 0
	}
	userID, ok := id.(int64)
	if !ok {
		return 0
	}
	return userID
}

func (s *Session) LoginUser(id int64) error {
	s.Set(userIDKey, id)
	return s.Save()
}

func (s *Session) LogoutUser() error {
	s.Delete(userIDKey)
	s.Clear()
	s.Options(sessions.Options{Path: "/", MaxAge: -1})
	return s.Save()
}
