// Package erp authenticates portal users against the ERP.
package erp

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/mbolis/os-portal/config"
	"github.com/mbolis/os-portal/model"
	"github.com/pkg/errors"
)

const (
	validityLayout    = "20060102"
	minPasswordLength = 6
)

var (
	ErrInvalidCredentials = errors.New("erp: invalid credentials")
	ErrBlocked            = errors.New("erp: user blocked")
	ErrExpired            = errors.New("erp: user expired")
	ErrWeakPassword       = errors.New("erp: new password must have at least 6 characters")
	ErrPasswordMismatch   = errors.New("erp: password confirmation does not match")
)

// RejectedError is a password change refused by the ERP.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	return "erp: password change rejected: " + e.Message
}

type Client struct {
	http *resty.Client
}

func New(cfg config.Upstream) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(cfg.ERPURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(cfg.Timeout).
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)

	return &Client{http: c}
}

func (c *Client) Login(ctx context.Context, username, password string) (model.Profile, error) {
	var profile model.Profile
	resp, err := c.http.R().
		SetContext(ctx).
		SetBasicAuth(strings.TrimSpace(username), strings.TrimSpace(password)).
		SetResult(&profile).
		ForceContentType("application/json").
		Get("/login")
	if err != nil {
		return profile, errors.Wrap(err, "erp.login")
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return profile, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return profile, ErrInvalidCredentials
	default:
		return profile, errors.Errorf("erp.login: status %d", resp.StatusCode())
	}
}

// CheckAccess tells whether a logged in user may use the portal at time now.
// Users with a pending password change are let through; their sessions carry
// no permissions.
func CheckAccess(p model.Profile, now time.Time) error {
	if p.IsBlocked() {
		return ErrBlocked
	}
	if p.MustChangePassword() {
		return nil
	}

	validity, err := time.ParseInLocation(validityLayout, p.Validity, now.Location())
	if err != nil {
		return errors.Wrapf(ErrExpired, "bad validity %q", p.Validity)
	}
	if now.After(validity) {
		return ErrExpired
	}
	return nil
}

// ValidateNewPassword checks a new password before it is sent to the ERP.
func ValidateNewPassword(password, confirmation string) error {
	if password != confirmation {
		return ErrPasswordMismatch
	}
	if len([]rune(password)) < minPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

type changePasswordRequest struct {
	UserCode string `json:"coduser"`
	Password string `json:"psw"`
}

type changePasswordResponse struct {
	// sic
	Success bool `json:"succes"`
	Result  struct {
		Message string `json:"message"`
	} `json:"result"`
}

// ChangePassword replaces the password of userCode, authenticating with the
// old one.
func (c *Client) ChangePassword(ctx context.Context, userCode, oldPassword, newPassword string) error {
	var out changePasswordResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBasicAuth(userCode, oldPassword).
		SetBody(changePasswordRequest{UserCode: userCode, Password: newPassword}).
		SetResult(&out).
		ForceContentType("application/json").
		Put("/portal/login")
	if err != nil {
		return errors.Wrap(err, "erp.change_password")
	}

	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrInvalidCredentials
	default:
		return errors.Errorf("erp.change_password: status %d", resp.StatusCode())
	}

	if !out.Success {
		msg := out.Result.Message
		if msg == "" {
			msg = fmt.Sprintf("no reason given for user %s", userCode)
		}
		return &RejectedError{Message: msg}
	}
	return nil
}
