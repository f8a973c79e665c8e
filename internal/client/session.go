package client

import (
	"context"
	"sync"
)

// Session is the explicit token holder: set on login, cleared on logout,
// injected wherever a request needs it. Nothing reads ambient global state.
type Session struct {
	mu     sync.RWMutex
	token  string
	userID string
	role   string
}

func NewSession() *Session { return &Session{} }

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

func (s *Session) Role() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

func (s *Session) set(token, userID, role string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.userID, s.role = token, userID, role
}

// Clear drops the session; subsequent requests go out unauthenticated.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.userID, s.role = "", "", ""
}

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Login authenticates and stores the bearer token in the session.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var resp struct {
		AccessToken string `json:"access_token"`
		Role        string `json:"role"`
		UserID      string `json:"user_id"`
	}
	err := c.do(ctx, "POST", "/api/auth/login", nil,
		map[string]string{"username": username, "password": password}, &resp)
	if err != nil {
		return err
	}
	c.session.set(resp.AccessToken, resp.UserID, resp.Role)
	return nil
}

// Me fetches the authenticated user.
func (c *Client) Me(ctx context.Context) (User, error) {
	var u User
	err := c.do(ctx, "GET", "/api/auth/me", nil, nil, &u)
	return u, err
}

// Logout clears the local session. The server keeps no session state.
func (c *Client) Logout() { c.session.Clear() }
