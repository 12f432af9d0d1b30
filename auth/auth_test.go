package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func adminToken(t *testing.T) string {
	return signToken(t, jwt.MapClaims{
		"sub":   "user-1",
		"email": "admin@modiv.id",
		"role":  "admin",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
}

func TestVerifyAdminToken(t *testing.T) {
	verifier := &Verifier{secret: []byte(testSecret)}

	user, err := verifier.Verify(adminToken(t))
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "admin@modiv.id", user.Email)
	assert.True(t, user.IsAdmin)
}

func TestVerifyAppMetadataRoleWins(t *testing.T) {
	verifier := &Verifier{secret: []byte(testSecret)}

	token := signToken(t, jwt.MapClaims{
		"sub":          "user-2",
		"role":         "authenticated",
		"app_metadata": map[string]interface{}{"role": "admin"},
		"exp":          time.Now().Add(time.Hour).Unix(),
	})

	user, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	verifier := &Verifier{secret: []byte("a-different-secret")}

	_, err := verifier.Verify(adminToken(t))
	assert.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	verifier := &Verifier{secret: []byte(testSecret)}

	token := signToken(t, jwt.MapClaims{
		"sub":  "user-1",
		"role": "admin",
		"exp":  time.Now().Add(-time.Minute).Unix(),
	})

	_, err := verifier.Verify(token)
	assert.Error(t, err)
}

func TestRequireAdmin(t *testing.T) {
	verifier := &Verifier{secret: []byte(testSecret)}

	var seen *User
	handler := verifier.RequireAdmin(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	// No token
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/admin/inquiries", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Authenticated but not an administrator
	userToken := signToken(t, jwt.MapClaims{
		"sub":  "user-3",
		"role": "authenticated",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/inquiries", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	handler(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Administrator passes and lands on the context
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin/inquiries", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t))
	handler(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "admin@modiv.id", seen.Email)
}
