package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"loginflow/internal/oauthsession"
	"loginflow/pkg/logging"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// ErrNotFound is returned when no session is stored for the backend.
var ErrNotFound = errors.New("no stored session")

// expiryBuffer is subtracted from the token expiry when checking validity.
const expiryBuffer = 60 * time.Second

// Session is a stored login.
type Session struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	Expiry      time.Time `json:"expiry,omitempty"`

	BaseURL     string `json:"base_url"`
	Collection  string `json:"collection"`
	Provider    string `json:"provider"`
	RecordID    string `json:"record_id"`
	DisplayName string `json:"display_name"`

	CreatedAt time.Time `json:"created_at"`
}

// Token returns the session's credentials as an oauth2.Token.
func (s *Session) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken: s.AccessToken,
		TokenType:   s.TokenType,
		Expiry:      s.Expiry,
	}
}

// ExpiredAt reports whether the session is expired, or about to expire, at now.
// Sessions without a known expiry never expire.
func (s *Session) ExpiredAt(now time.Time) bool {
	if s.Expiry.IsZero() {
		return false
	}
	return !now.Add(expiryBuffer).Before(s.Expiry)
}

// StoreConfig configures a Store.
type StoreConfig struct {
	// StorageDir holds the session files. It is created if missing.
	StorageDir string

	BaseURL    string
	Collection string
}

// Store reads and writes the session for one backend.
type Store struct {
	mu         sync.Mutex
	dir        string
	baseURL    string
	collection string
	now        func() time.Time
}

// NewStore creates a store, creating its directory if needed.
func NewStore(cfg StoreConfig) (*Store, error) {
	if cfg.StorageDir == "" {
		return nil, errors.New("session storage directory is required")
	}
	if err := os.MkdirAll(cfg.StorageDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create session storage directory: %w", err)
	}
	return &Store{
		dir:        cfg.StorageDir,
		baseURL:    cfg.BaseURL,
		collection: cfg.Collection,
		now:        time.Now,
	}, nil
}

// Complete stores the session of a successful login.
func (st *Store) Complete(_ context.Context, success *oauthsession.Success) error {
	_, err := st.Save(success)
	return err
}

// Save stores success as the current session, replacing any previous one.
func (st *Store) Save(success *oauthsession.Success) (*Session, error) {
	if success == nil || success.Token == "" {
		return nil, errors.New("nothing to store: empty login result")
	}

	expiry, err := tokenExpiry(success.Token)
	if err != nil {
		// Opaque tokens are fine; they just have no known expiry.
		logging.Debug("Session", "Token expiry unavailable: %v", err)
	}

	s := &Session{
		AccessToken: success.Token,
		TokenType:   "Bearer",
		Expiry:      expiry,
		BaseURL:     st.baseURL,
		Collection:  st.collection,
		Provider:    success.Provider,
		RecordID:    success.RecordID,
		DisplayName: success.DisplayName,
		CreatedAt:   st.now(),
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := os.WriteFile(st.path(), data, 0600); err != nil {
		logging.Error("Session", err, "Failed to store session for %s", st.baseURL)
		return nil, fmt.Errorf("failed to write session file: %w", err)
	}

	logging.Info("Session", "Stored session for %s (provider=%s, record=%s)", st.baseURL, s.Provider, s.RecordID)
	return s, nil
}

// Load returns the stored session, expired or not.
func (st *Store) Load() (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	// #nosec G304 -- the file name is derived from a hash, not user input
	data, err := os.ReadFile(st.path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &s, nil
}

// Delete removes the stored session. It returns ErrNotFound if there was none.
func (st *Store) Delete() error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if err := os.Remove(st.path()); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	logging.Info("Session", "Deleted session for %s", st.baseURL)
	return nil
}

func (st *Store) path() string {
	hash := sha256.Sum256([]byte(st.baseURL + "|" + st.collection))
	return filepath.Join(st.dir, hex.EncodeToString(hash[:16])+".json")
}

// tokenExpiry reads the "exp" claim of an unverified JWT.
func tokenExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("failed to parse token: %w", err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, err
	}
	if exp == nil {
		return time.Time{}, errors.New("token has no exp claim")
	}
	return exp.Time, nil
}
