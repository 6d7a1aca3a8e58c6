package httpx

import (
	"database/sql"

	"github.com/go-chi/oauth"
	"github.com/mbolis/os-portal/config"
)

func NewBearerServer(db *sql.DB, cfg config.Config, auth Authenticator) *oauth.BearerServer {
	return oauth.NewBearerServer(cfg.TokenSecret, cfg.TokenTTL, CredentialsVerifier(db, auth), nil)
}
