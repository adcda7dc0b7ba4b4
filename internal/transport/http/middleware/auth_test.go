package middleware

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/donor-intake-api/internal/config"
	"github.com/donor-intake-api/internal/domain"
	jwtinfra "github.com/donor-intake-api/internal/infrastructure/jwt"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// newTestProvider generates a fresh RSA key pair, writes them to temp files,
// and returns a *jwtinfra.Provider.
func newTestProvider(t *testing.T) *jwtinfra.Provider {
	t.Helper()
	privKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	dir := t.TempDir()
	privPath := filepath.Join(dir, "private.pem")
	pubPath := filepath.Join(dir, "public.pem")

	privPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(privKey)})
	require.NoError(t, os.WriteFile(privPath, privPEM, 0600))

	pubBytes, err := x509.MarshalPKIXPublicKey(&privKey.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubBytes})
	require.NoError(t, os.WriteFile(pubPath, pubPEM, 0600))

	p, err := jwtinfra.NewProvider(&config.Config{
		JWTPrivateKeyPath: privPath,
		JWTPublicKeyPath:  pubPath,
		JWTExpiry:         time.Hour,
	})
	require.NoError(t, err)
	return p
}

type mockSessions struct{ mock.Mock }

func (m *mockSessions) Current(ctx context.Context, sessionID string) (*domain.Session, error) {
	args := m.Called(ctx, sessionID)
	if s, _ := args.Get(0).(*domain.Session); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func okHandler(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func serve(p *jwtinfra.Provider, sessions *mockSessions, authHeader string, next http.Handler) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rr := httptest.NewRecorder()
	Auth(p, sessions)(next).ServeHTTP(rr, req)
	return rr
}

func TestAuth_MissingHeader(t *testing.T) {
	rr := serve(newTestProvider(t), new(mockSessions), "", http.HandlerFunc(okHandler))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
}

func TestAuth_BadToken(t *testing.T) {
	rr := serve(newTestProvider(t), new(mockSessions), "Bearer not-a-real-token", http.HandlerFunc(okHandler))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuth_TokenFromOtherKey(t *testing.T) {
	privKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, &jwtinfra.Claims{
		UserID:    "u1",
		Role:      "staff",
		SessionID: "s1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString(privKey)
	require.NoError(t, err)

	sessions := new(mockSessions)
	rr := serve(newTestProvider(t), sessions, "Bearer "+signed, http.HandlerFunc(okHandler))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	sessions.AssertNotCalled(t, "Current", mock.Anything, mock.Anything)
}

func TestAuth_UnknownRole(t *testing.T) {
	p := newTestProvider(t)
	signed, err := p.Sign("u1", "superuser", "s1", time.Now().Add(time.Hour))
	require.NoError(t, err)

	rr := serve(p, new(mockSessions), "Bearer "+signed, http.HandlerFunc(okHandler))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuth_EndedSession(t *testing.T) {
	p := newTestProvider(t)
	signed, err := p.Sign("u1", "staff", "s1", time.Now().Add(time.Hour))
	require.NoError(t, err)
	sessions := new(mockSessions)
	sessions.On("Current", mock.Anything, "s1").Return(nil, fmt.Errorf("session ended: %w", domain.ErrUnauthorized))

	rr := serve(p, sessions, "Bearer "+signed, http.HandlerFunc(okHandler))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuth_SessionStoreDown(t *testing.T) {
	p := newTestProvider(t)
	signed, err := p.Sign("u1", "staff", "s1", time.Now().Add(time.Hour))
	require.NoError(t, err)
	sessions := new(mockSessions)
	sessions.On("Current", mock.Anything, "s1").Return(nil, errors.New("boom"))

	rr := serve(p, sessions, "Bearer "+signed, http.HandlerFunc(okHandler))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestAuth_ValidToken_InjectsClaimsAndActor(t *testing.T) {
	p := newTestProvider(t)
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	signed, err := p.Sign("u1", "staff", "s1", exp)
	require.NoError(t, err)
	sessions := new(mockSessions)
	sessions.On("Current", mock.Anything, "s1").Return(&domain.Session{SessionID: "s1", UserID: "u1", Enable: true, ExpiresAt: exp}, nil)

	var gotClaims *jwtinfra.Claims
	var gotActor *domain.Actor
	capture := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims, _ = ClaimsFromContext(r.Context())
		gotActor = ActorFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	rr := serve(p, sessions, "Bearer "+signed, capture)
	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, gotClaims)
	assert.Equal(t, "u1", gotClaims.UserID)
	require.NotNil(t, gotActor)
	assert.Equal(t, domain.RoleStaff, gotActor.Role)
	assert.Equal(t, "s1", gotActor.SessionID)
	assert.True(t, gotActor.ExpiresAt.Equal(exp))
}

func TestActorFromContext_Anonymous(t *testing.T) {
	assert.Nil(t, ActorFromContext(context.Background()))
}
