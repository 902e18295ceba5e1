package internal

import (
	"sync"

	pkgerrs "github.com/ath31st/boosty-api-go/pkg/errors"
)

// CredentialMode identifies which credential variant a Store currently holds.
type CredentialMode int

const (
	// ModeNone means no credential is configured; requests go out anonymous.
	ModeNone CredentialMode = iota
	// ModeBearer means a static bearer token is attached to every request.
	ModeBearer
	// ModeRefreshPair means a refresh token + device id mint access tokens
	// reactively, on the first observed auth-expiry signal.
	ModeRefreshPair
)

// Store owns the client's authentication state. It is the only mutable state
// shared between in-flight requests, so every read and write goes through
// its mutex. The generation counter increments whenever the usable access
// token changes, which lets the executor detect that a concurrent request
// already refreshed the token it saw fail.
type Store struct {
	mu           sync.Mutex
	mode         CredentialMode
	accessToken  string
	refreshToken string
	deviceID     string
	generation   uint64
}

// NewStore returns an empty credential store in ModeNone.
func NewStore() *Store {
	return &Store{}
}

// SetBearer replaces the whole credential state with a static bearer token.
func (s *Store) SetBearer(token string) error {
	if token == "" {
		return &pkgerrs.ConfigError{Field: "AccessToken", Message: "access token is empty"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = ModeBearer
	s.accessToken = token
	s.refreshToken = ""
	s.deviceID = ""
	s.generation++
	return nil
}

// SetRefreshPair replaces the whole credential state with a refresh token and
// device id. No access token is fetched eagerly; the first one is minted when
// a request observes an auth-expiry signal.
func (s *Store) SetRefreshPair(refreshToken, deviceID string) error {
	if refreshToken == "" {
		return &pkgerrs.ConfigError{Field: "RefreshToken", Message: "refresh token is empty"}
	}
	if deviceID == "" {
		return &pkgerrs.ConfigError{Field: "DeviceID", Message: "device id is empty"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = ModeRefreshPair
	s.accessToken = ""
	s.refreshToken = refreshToken
	s.deviceID = deviceID
	s.generation++
	return nil
}

// Clear drops all credentials and returns the store to ModeNone.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = ModeNone
	s.accessToken = ""
	s.refreshToken = ""
	s.deviceID = ""
	s.generation++
}

// Mode returns the active credential variant.
func (s *Store) Mode() CredentialMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// AccessToken returns the token to attach to the next request, which may be
// empty in ModeNone or in ModeRefreshPair before the first refresh. The
// returned generation identifies the token snapshot; see Generation.
func (s *Store) AccessToken() (string, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.generation
}

// Generation returns the current token generation. It changes whenever the
// usable access token is replaced.
func (s *Store) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// RefreshCredentials returns the refresh token and device id, and whether the
// store is in ModeRefreshPair at all.
func (s *Store) RefreshCredentials() (refreshToken, deviceID string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != ModeRefreshPair {
		return "", "", false
	}
	return s.refreshToken, s.deviceID, true
}

// InstallRefreshed atomically installs a freshly minted access token, rotating
// the refresh token when the server returned a new one. Refreshing is only
// meaningful for the refresh-pair flow, so any other mode is a state error.
func (s *Store) InstallRefreshed(accessToken, refreshToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != ModeRefreshPair {
		return &pkgerrs.StateError{
			Operation: "install refreshed token",
			Message:   "store does not hold a refresh pair",
		}
	}

	s.accessToken = accessToken
	if refreshToken != "" {
		s.refreshToken = refreshToken
	}
	s.generation++
	return nil
}
