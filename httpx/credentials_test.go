package httpx

import (
	"context"
	"database/sql"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/oauth"
	"github.com/mbolis/os-portal/database"
	"github.com/mbolis/os-portal/erp"
	"github.com/mbolis/os-portal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userToken = oauth.TokenType("U")

type fakeERP map[string]model.Profile

func (f fakeERP) Login(ctx context.Context, username, password string) (model.Profile, error) {
	p, ok := f[username]
	if !ok || password != "secret" {
		return model.Profile{}, erp.ErrInvalidCredentials
	}
	return p, nil
}

var testProfiles = fakeERP{
	"ana":   {Permissions: []string{"CKL", "PED"}, Blocked: "N", ChangePassword: "N", Validity: "20991231", UserCode: "000001"},
	"bruno": {Permissions: []string{"CKL"}, Blocked: "S", ChangePassword: "N", Validity: "20991231", UserCode: "000002"},
	"carla": {Permissions: []string{"CKL"}, Blocked: "N", ChangePassword: "S", Validity: "20991231", UserCode: "000003"},
	"davi":  {Permissions: []string{"CKL"}, Blocked: "N", ChangePassword: "N", Validity: "20200101", UserCode: "000004"},
}

func newVerifier(t *testing.T) (*credentialsVerifier, *sql.DB) {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "portal.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return CredentialsVerifier(db, testProfiles).(*credentialsVerifier), db
}

func TestValidateUser(t *testing.T) {
	cs, _ := newVerifier(t)
	r := httptest.NewRequest("POST", "/api/login", nil)

	assert.NoError(t, cs.ValidateUser("ana", "secret", "", r))
	assert.ErrorIs(t, cs.ValidateUser("ana", "wrong", "", r), erp.ErrInvalidCredentials)
	assert.ErrorIs(t, cs.ValidateUser("bruno", "secret", "", r), erp.ErrBlocked)
	assert.ErrorIs(t, cs.ValidateUser("davi", "secret", "", r), erp.ErrExpired)
	assert.NoError(t, cs.ValidateUser("carla", "secret", "", r))
}

func TestAddClaims(t *testing.T) {
	cs, _ := newVerifier(t)
	r := httptest.NewRequest("POST", "/api/login", nil)

	require.NoError(t, cs.ValidateUser("ana", "secret", "", r))
	claims, err := cs.AddClaims(userToken, "ana", "tid", "", r)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		ClaimUsername:       "ana",
		ClaimRoles:          "CKL,PED",
		ClaimUserCode:       "000001",
		ClaimChangePassword: "N",
	}, claims)

	require.NoError(t, cs.ValidateUser("carla", "secret", "", r))
	claims, err = cs.AddClaims(userToken, "carla", "tid", "", r)
	require.NoError(t, err)
	assert.Equal(t, "", claims[ClaimRoles])
	assert.Equal(t, "S", claims[ClaimChangePassword])

	props, err := cs.AddProperties(userToken, "carla", "tid", "", r)
	require.NoError(t, err)
	assert.Equal(t, "S", props[ClaimChangePassword])

	_, err = cs.AddClaims(userToken, "nobody", "tid", "", r)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestTokenRotation(t *testing.T) {
	cs, _ := newVerifier(t)
	r := httptest.NewRequest("POST", "/api/login", nil)
	require.NoError(t, cs.ValidateUser("ana", "secret", "", r))

	require.NoError(t, cs.StoreTokenID(userToken, "ana", "t1", "r1"))

	assert.Error(t, cs.ValidateTokenID(userToken, "ana", "t1", "other"))
	assert.NoError(t, cs.ValidateTokenID(userToken, "ana", "t1", "r1"))
	// refresh tokens are single use
	assert.Error(t, cs.ValidateTokenID(userToken, "ana", "t1", "r1"))
}

func TestExpiredRefreshToken(t *testing.T) {
	cs, _ := newVerifier(t)
	r := httptest.NewRequest("POST", "/api/login", nil)
	require.NoError(t, cs.ValidateUser("ana", "secret", "", r))

	cs.now = func() time.Time { return time.Now().Add(-2 * refreshTokenTTL) }
	require.NoError(t, cs.StoreTokenID(userToken, "ana", "t1", "r1"))

	cs.now = time.Now
	assert.Error(t, cs.ValidateTokenID(userToken, "ana", "t1", "r1"))
}
