package apiserver

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// user is a registered API caller, identified by username and an API key
// verified with bcrypt rather than a password, since this server has no
// interactive login page.
type user struct {
	ID         uuid.UUID
	Username   string
	KeyHash    string
	LastLogout time.Time
}

// userStore is an in-memory user directory, grounded on the shape of the
// teacher's dao.UserRepository but trimmed to the single lookup shapes this
// server's auth middleware needs.
type userStore struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]user
	byUsr map[string]uuid.UUID
}

func newUserStore() *userStore {
	return &userStore{
		byID:  make(map[uuid.UUID]user),
		byUsr: make(map[string]uuid.UUID),
	}
}

// Register hashes key with bcrypt and adds a new user, returning an error if
// username is already taken.
func (s *userStore) Register(username, key string) (user, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byUsr[username]; exists {
		return user{}, fmt.Errorf("username %q is already registered", username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return user{}, err
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return user{}, fmt.Errorf("could not generate ID: %w", err)
	}

	u := user{ID: id, Username: username, KeyHash: string(hash)}
	s.byID[id] = u
	s.byUsr[username] = id
	return u, nil
}

func (s *userStore) byUsername(username string) (user, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byUsr[username]
	if !ok {
		return user{}, false
	}
	u, ok := s.byID[id]
	return u, ok
}

func (s *userStore) byID_(id uuid.UUID) (user, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	return u, ok
}

var errBadCredentials = fmt.Errorf("username/key combination is not valid")

// login verifies username and key against the store and returns the matched
// user, grounded on the teacher's tunas.Service.Login (lookup, then
// bcrypt.CompareHashAndPassword).
func (s *userStore) login(username, key string) (user, error) {
	u, ok := s.byUsername(username)
	if !ok {
		return user{}, errBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.KeyHash), []byte(key)); err != nil {
		return user{}, errBadCredentials
	}
	return u, nil
}

const jwtIssuer = "mcfgserver"

// generateJWT issues a bearer token for u, signed with secret salted by the
// user's own key hash and last-logout time, per the teacher's
// server/token.go generateJWT. A change to either value would invalidate
// previously issued tokens; userStore has no operation that changes them, so
// a token stays valid until it expires.
func generateJWT(u user, secret []byte) (string, error) {
	claims := &jwt.MapClaims{
		"iss": jwtIssuer,
		"exp": time.Now().Add(time.Hour).Unix(),
		"sub": u.ID.String(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)

	signKey := append([]byte{}, secret...)
	signKey = append(signKey, []byte(u.KeyHash)...)
	signKey = append(signKey, []byte(fmt.Sprintf("%d", u.LastLogout.Unix()))...)

	return tok.SignedString(signKey)
}

func validateJWT(ctx context.Context, tok string, secret []byte, store *userStore) (user, error) {
	var matched user

	_, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		subj, err := t.Claims.GetSubject()
		if err != nil {
			return nil, fmt.Errorf("cannot get subject: %w", err)
		}
		id, err := uuid.Parse(subj)
		if err != nil {
			return nil, fmt.Errorf("cannot parse subject UUID: %w", err)
		}
		u, ok := store.byID_(id)
		if !ok {
			return nil, fmt.Errorf("subject does not exist")
		}
		matched = u

		signKey := append([]byte{}, secret...)
		signKey = append(signKey, []byte(u.KeyHash)...)
		signKey = append(signKey, []byte(fmt.Sprintf("%d", u.LastLogout.Unix()))...)
		return signKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer(jwtIssuer), jwt.WithLeeway(time.Minute))

	if err != nil {
		return user{}, err
	}
	return matched, nil
}

func bearerToken(req *http.Request) (string, error) {
	header := strings.TrimSpace(req.Header.Get("Authorization"))
	if header == "" {
		return "", fmt.Errorf("no authorization header present")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(strings.TrimSpace(parts[0]), "bearer") {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}
	return strings.TrimSpace(parts[1]), nil
}

type contextKey int

const ctxKeyUser contextKey = iota

// requireAuth is chi middleware that rejects any request lacking a valid
// bearer token and otherwise attaches the authenticated user to the request
// context, grounded on the teacher's AuthHandler.
func requireAuth(store *userStore, secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			tok, err := bearerToken(req)
			if err != nil {
				unauthorized(err.Error()).write(w, req)
				return
			}
			u, err := validateJWT(req.Context(), tok, secret, store)
			if err != nil {
				unauthorized(err.Error()).write(w, req)
				return
			}
			ctx := context.WithValue(req.Context(), ctxKeyUser, u)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}

func userFromContext(ctx context.Context) (user, bool) {
	u, ok := ctx.Value(ctxKeyUser).(user)
	return u, ok
}
