// server/auth/auth.go
package auth

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"quietquadrant/shared/protocol"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrBadPassword  = errors.New("invalid credentials")
)

const tokenTTL = 24 * time.Hour

// operator is the persisted feed password. One password guards the feed;
// every viewer that knows it gets a token.
type operator struct {
	PasswordHash string    `json:"password_hash"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type operatorStore struct {
	mu   sync.RWMutex
	path string
	op   *operator
}

func newOperatorStore(path string) (*operatorStore, error) {
	s := &operatorStore{path: path}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", path, err)
	default:
		var op operator
		if err := json.Unmarshal(b, &op); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		s.op = &op
	}
	return s, nil
}

func (s *operatorStore) hash() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.op == nil || s.op.PasswordHash == "" {
		return "", false
	}
	return s.op.PasswordHash, true
}

func (s *operatorStore) set(password string) error {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	op := &operator{PasswordHash: string(h), UpdatedAt: time.Now()}
	b, _ := json.MarshalIndent(op, "", "  ")
	if err := os.WriteFile(s.path, b, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	s.mu.Lock()
	s.op = op
	s.mu.Unlock()
	return nil
}

type Auth struct {
	store  *operatorStore
	jwtKey []byte
	issuer string
	now    func() time.Time
}

// NewAuth loads the signing key and operator password from dataDir. A non-empty
// password replaces the stored one. With neither, the feed is open.
func NewAuth(dataDir, password string) (*Auth, error) {
	store, err := newOperatorStore(filepath.Join(dataDir, "operator.json"))
	if err != nil {
		return nil, err
	}
	if password != "" {
		if _, ok := store.hash(); ok && store.matches(password) {
			log.Println("AUTH: operator password unchanged")
		} else if err := store.set(password); err != nil {
			return nil, err
		} else {
			log.Println("AUTH: operator password updated")
		}
	}
	if !store.has() {
		log.Println("AUTH: no operator password, feed is open")
	}

	keyPath := filepath.Join(dataDir, "jwt.key")
	key, err := os.ReadFile(keyPath)
	if err != nil || len(key) < 32 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("jwt key: %w", err)
		}
		if err := os.WriteFile(keyPath, key, 0o600); err != nil {
			return nil, fmt.Errorf("write %s: %w", keyPath, err)
		}
	}
	return &Auth{store: store, jwtKey: key, issuer: "quietquadrant-feed", now: time.Now}, nil
}

func (s *operatorStore) has() bool {
	_, ok := s.hash()
	return ok
}

func (s *operatorStore) matches(password string) bool {
	h, ok := s.hash()
	return ok && bcrypt.CompareHashAndPassword([]byte(h), []byte(password)) == nil
}

// Open reports whether the feed accepts connections without a token.
func (a *Auth) Open() bool { return !a.store.has() }

// Issue returns a signed token for one viewer.
func (a *Auth) Issue(password string) (string, time.Time, error) {
	if !a.Open() && !a.store.matches(password) {
		return "", time.Time{}, ErrBadPassword
	}
	now := a.now()
	exp := now.Add(tokenTTL)
	claims := jwt.MapClaims{
		"sub": "viewer",
		"iss": a.issuer,
		"iat": now.Unix(),
		"exp": exp.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.jwtKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

func (a *Auth) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req protocol.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	tok, exp, err := a.Issue(req.Password)
	if errors.Is(err, ErrBadPassword) {
		log.Printf("AUTH: rejected login from %s", r.RemoteAddr)
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if err != nil {
		log.Printf("AUTH: %v", err)
		http.Error(w, "token failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(protocol.LoginResponse{Token: tok, ExpiresAt: exp.Unix()})
}

func (a *Auth) ParseToken(tok string) (string, error) {
	if tok == "" {
		return "", fmt.Errorf("missing token: %w", ErrInvalidToken)
	}
	t, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		return a.jwtKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(a.issuer),
		jwt.WithTimeFunc(a.now))
	if err != nil || !t.Valid {
		return "", ErrInvalidToken
	}
	if claims, ok := t.Claims.(jwt.MapClaims); ok {
		if sub, ok := claims["sub"].(string); ok {
			return sub, nil
		}
	}
	return "", ErrInvalidToken
}

// RequireAuth guards the feed: a Bearer header or ?token= query parameter,
// unless the feed is open.
func (a *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.Open() {
			next.ServeHTTP(w, r)
			return
		}
		var tok string
		if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
			tok = strings.TrimPrefix(h, "Bearer ")
		} else {
			tok = r.URL.Query().Get("token")
		}
		if _, err := a.ParseToken(tok); err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
