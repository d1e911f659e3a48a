// Package client provides a session object for programs consuming the
// crop API. It keeps the current user and token pair, exposes the auth
// actions and produces bearer headers for authenticated calls.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"go-crop-api/model"
	"io"
	"net/http"
	"sync"
	"time"
)

// ErrNotAuthenticated is returned by actions that require a session.
var ErrNotAuthenticated = errors.New("client: not authenticated")

// Session holds client-side auth state. It is constructed once at program
// start and passed to whatever needs authenticated access; Close tears it
// down. All methods are safe for concurrent use.
type Session struct {
	baseURL    string
	httpClient *http.Client

	mu            sync.Mutex
	user          *model.User
	accessToken   string
	refreshToken  string
	authenticated bool
	loading       bool
	lastError     string

	// At most one refresh is in flight; concurrent callers wait for it
	// instead of racing rotations that would invalidate each other.
	refreshDone chan struct{}
	refreshErr  error
}

func NewSession(baseURL string) *Session {
	return &Session{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Close logs out best-effort and clears all local state.
func (s *Session) Close(ctx context.Context) {
	s.Logout(ctx)
}

// User returns the current user, nil if unauthenticated.
func (s *Session) User() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

func (s *Session) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the human-readable message of the last failed action, empty
// after a success or ClearError.
func (s *Session) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

func (s *Session) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = ""
}

// SetUser replaces the locally held user without a network call.
func (s *Session) SetUser(user *model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
}

// AuthHeaders returns the bearer header for the current access token, or an
// empty map if unauthenticated.
func (s *Session) AuthHeaders() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.authenticated || s.accessToken == "" {
		return map[string]string{}
	}
	return map[string]string{"Authorization": "Bearer " + s.accessToken}
}

// Login authenticates with email and password. On success the session holds
// the returned user and token pair; on failure the previous tokens are left
// untouched and Err carries the server's message.
func (s *Session) Login(ctx context.Context, email, password string) error {
	var resp model.AuthResponse
	err := s.doAction(ctx, "/auth/login", model.LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return err
	}
	s.adopt(&resp)
	return nil
}

// Signup registers a new account and opens its first session.
func (s *Session) Signup(ctx context.Context, email, password, name string) error {
	var resp model.AuthResponse
	err := s.doAction(ctx, "/auth/signup", model.SignupRequest{Email: email, Password: password, Name: name}, &resp)
	if err != nil {
		return err
	}
	s.adopt(&resp)
	return nil
}

// Logout ends the session. Local state is cleared even when the network
// call fails; the client must never be stuck in a dead session.
func (s *Session) Logout(ctx context.Context) {
	s.mu.Lock()
	refreshToken := s.refreshToken
	s.mu.Unlock()

	if refreshToken != "" {
		var discard map[string]string
		// Ignore failures: server-side logout is idempotent and the local
		// session ends regardless.
		_ = s.doAction(ctx, "/auth/logout", model.LogoutRequest{RefreshToken: refreshToken}, &discard)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.accessToken = ""
	s.refreshToken = ""
	s.authenticated = false
	s.loading = false
	s.lastError = ""
}

// RefreshAuth exchanges the stored refresh token for a new pair. Concurrent
// calls are coalesced into a single rotation.
func (s *Session) RefreshAuth(ctx context.Context) error {
	s.mu.Lock()
	if s.refreshDone != nil {
		done := s.refreshDone
		s.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
		s.mu.Lock()
		err := s.refreshErr
		s.mu.Unlock()
		return err
	}

	if s.refreshToken == "" {
		s.lastError = ErrNotAuthenticated.Error()
		s.mu.Unlock()
		return ErrNotAuthenticated
	}

	done := make(chan struct{})
	s.refreshDone = done
	refreshToken := s.refreshToken
	s.mu.Unlock()

	var pair model.TokenPair
	err := s.doAction(ctx, "/auth/refresh", model.RefreshRequest{RefreshToken: refreshToken}, &pair)

	s.mu.Lock()
	if err == nil {
		s.accessToken = pair.AccessToken
		s.refreshToken = pair.RefreshToken
		s.authenticated = true
		s.lastError = ""
	}
	s.refreshErr = err
	s.refreshDone = nil
	close(done)
	s.mu.Unlock()

	return err
}

// UpdateProfile updates the user's profile on the server and mirrors the
// result into local state.
func (s *Session) UpdateProfile(ctx context.Context, req model.UpdateProfileRequest) error {
	s.mu.Lock()
	if !s.authenticated {
		s.mu.Unlock()
		return ErrNotAuthenticated
	}
	accessToken := s.accessToken
	s.mu.Unlock()

	body, err := json.Marshal(req)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, s.baseURL+"/users/me", bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+accessToken)

	var user model.User
	if err := s.send(httpReq, &user); err != nil {
		s.setError(err)
		return err
	}

	s.mu.Lock()
	s.user = &user
	s.lastError = ""
	s.mu.Unlock()
	return nil
}

// adopt installs a successful auth response into the session.
func (s *Session) adopt(resp *model.AuthResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = resp.User
	s.accessToken = resp.AccessToken
	s.refreshToken = resp.RefreshToken
	s.authenticated = true
	s.lastError = ""
}

// doAction posts a JSON body to an auth endpoint and decodes the response,
// managing the loading flag and recording failures.
func (s *Session) doAction(ctx context.Context, path string, payload, out interface{}) error {
	s.setLoading(true)
	defer s.setLoading(false)

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(body))
	if err != nil {
		s.setError(err)
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	if err := s.send(req, out); err != nil {
		s.setError(err)
		return err
	}
	return nil
}

func (s *Session) send(req *http.Request, out interface{}) error {
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func (s *Session) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *Session) setError(err error) {
	s.mu.Lock()
	s.lastError = err.Error()
	s.mu.Unlock()
}

// APIError is the client-side view of a server error response. It carries
// the server's public message, never its internals.
type APIError struct {
	StatusCode int
	Kind       string
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

func decodeAPIError(resp *http.Response) error {
	var body struct {
		Kind    string `json:"error"`
		Message string `json:"message"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err := json.Unmarshal(raw, &body); err != nil || body.Message == "" {
		body.Message = http.StatusText(resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Kind: body.Kind, Message: body.Message}
}
