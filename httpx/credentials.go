package httpx

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/oauth"
	"github.com/mbolis/os-portal/database"
	"github.com/mbolis/os-portal/erp"
	"github.com/mbolis/os-portal/log"
	"github.com/mbolis/os-portal/model"
)

const refreshTokenTTL = 30 * 24 * time.Hour

// Claim keys carried by access tokens.
const (
	ClaimUsername       = "username"
	ClaimRoles          = "roles"
	ClaimUserCode       = "coduser"
	ClaimChangePassword = "change_password"
)

// Authenticator checks user credentials against the ERP.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (model.Profile, error)
}

type credentialsVerifier struct {
	db   *sql.DB
	auth Authenticator
	now  func() time.Time
}

func CredentialsVerifier(db *sql.DB, auth Authenticator) oauth.CredentialsVerifier {
	return &credentialsVerifier{db, auth, time.Now}
}

func (cs *credentialsVerifier) ValidateUser(username string, password string, scope string, r *http.Request) error {
	profile, err := cs.auth.Login(r.Context(), username, password)
	if err != nil {
		log.Debugf("login.erp: %s: %s", username, err)
		return err
	}

	err = erp.CheckAccess(profile, cs.now())
	if err != nil {
		log.Infof("login.access: %s: %s", username, err)
		return err
	}

	return database.SaveSession(r.Context(), cs.db, username, profile)
}
func (cs *credentialsVerifier) StoreTokenID(tokenType oauth.TokenType, credential string, tokenID string, refreshTokenID string) error {
	_, err := cs.db.Exec(
		"INSERT INTO token (username, token_id, refresh_token_id, expiration) VALUES (?, ?, ?, ?)",
		credential,
		tokenID,
		refreshTokenID,
		cs.now().Add(refreshTokenTTL),
	)
	return err
}
func (cs *credentialsVerifier) ValidateTokenID(tokenType oauth.TokenType, credential string, tokenID string, refreshTokenID string) error {
	var expiration time.Time
	err := cs.db.
		QueryRow(`
			DELETE FROM token
			WHERE username = ?
				AND token_id = ?
				AND refresh_token_id = ?
			RETURNING expiration`,
			credential,
			tokenID,
			refreshTokenID,
		).
		Scan(&expiration)
	if errors.Is(err, sql.ErrNoRows) {
		return errors.New("could not refresh")
	}
	if err != nil {
		return err
	}

	if expiration.Before(cs.now()) {
		return errors.New("could not refresh")
	}
	return nil
}
func (cs *credentialsVerifier) AddClaims(tokenType oauth.TokenType, credential string, tokenID string, scope string, r *http.Request) (map[string]string, error) {
	s, err := database.GetSession(r.Context(), cs.db, credential)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		ClaimUsername:       s.Username,
		ClaimRoles:          strings.Join(s.Permissions, ","),
		ClaimUserCode:       s.UserCode,
		ClaimChangePassword: yesNo(s.ChangePassword),
	}, nil
}
func (cs *credentialsVerifier) AddProperties(tokenType oauth.TokenType, credential string, tokenID string, scope string, r *http.Request) (map[string]string, error) {
	s, err := database.GetSession(r.Context(), cs.db, credential)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		ClaimChangePassword: yesNo(s.ChangePassword),
	}, nil
}
func (*credentialsVerifier) ValidateClient(clientID string, clientSecret string, scope string, r *http.Request) error {
	return errors.New("not supported")
}

func yesNo(b bool) string {
	if b {
		return "S"
	}
	return "N"
}
