package routes

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-chi/render"
	"github.com/mbolis/os-portal/app"
	"github.com/mbolis/os-portal/erp"
	"github.com/mbolis/os-portal/httpx"
	"github.com/mbolis/os-portal/log"
	"github.com/mbolis/os-portal/routes/middlewares"
)

var reRefresh = regexp.MustCompile(`(?i)^refresh\s+(.*)`)

func Login(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok {
			httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "login.basic_auth")
			return
		}
		user, pass = strings.TrimSpace(user), strings.TrimSpace(pass)
		if user == "" || pass == "" {
			httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "login.basic_auth.empty")
			return
		}

		body := url.Values{
			"grant_type": {"password"},
			"username":   {user},
			"password":   {pass},
		}
		r.Body = io.NopCloser(strings.NewReader(body.Encode()))
		r.Header.Set("content-type", "application/x-www-form-urlencoded")
		r.Header.Set("content-length", strconv.Itoa(len(body.Encode())))
		app.UserCredentials(w, r)
	}
}

func Refresh(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("authorization")
		match := reRefresh.FindStringSubmatch(auth)
		if len(match) == 0 {
			httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "refresh.token")
			return
		}
		token := match[1]

		body := url.Values{
			"grant_type":    {"refresh_token"},
			"refresh_token": {token},
		}

		req, err := http.NewRequestWithContext(r.Context(), http.MethodPost, "/", strings.NewReader(body.Encode()))
		if err != nil {
			httpx.LogStatus(w, http.StatusInternalServerError, log.DebugLevel, "refresh.new_request")
			return
		}
		req.Header.Set("content-type", "application/x-www-form-urlencoded")
		req.Header.Set("content-length", strconv.Itoa(len(body.Encode())))

		resp := httpx.NewResponseBuffer()
		app.UserCredentials(resp, req)
		resp.Flush(w)
	}
}

type meResponse struct {
	Username       string   `json:"username"`
	UserCode       string   `json:"coduser"`
	Permissions    []string `json:"permissions"`
	ChangePassword bool     `json:"change_password"`
}

func Me(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := middlewares.Claims(r)

		perms := []string{}
		if roles := claims[httpx.ClaimRoles]; roles != "" {
			perms = strings.Split(roles, ",")
		}

		render.JSON(w, r, meResponse{
			Username:       claims[httpx.ClaimUsername],
			UserCode:       claims[httpx.ClaimUserCode],
			Permissions:    perms,
			ChangePassword: claims[httpx.ClaimChangePassword] == "S",
		})
	}
}

type changePasswordRequest struct {
	OldPassword  string `json:"old_password"`
	NewPassword  string `json:"new_password"`
	Confirmation string `json:"confirmation"`
}

func ChangePassword(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := changePasswordRequest{}
		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if req.OldPassword == "" || req.NewPassword == "" || req.Confirmation == "" {
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "password.validate", "all fields are required")
			return
		}
		err = erp.ValidateNewPassword(req.NewPassword, req.Confirmation)
		if err != nil {
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "password.validate", "%s", err)
			return
		}

		claims := middlewares.Claims(r)
		userCode := claims[httpx.ClaimUserCode]
		if userCode == "" {
			httpx.LogStatus(w, http.StatusUnauthorized, log.InfoLevel, "password.user_code")
			return
		}

		err = app.ERP.ChangePassword(r.Context(), userCode, req.OldPassword, req.NewPassword)
		var rejected *erp.RejectedError
		switch {
		case errors.Is(err, erp.ErrInvalidCredentials):
			httpx.LogStatus(w, http.StatusForbidden, log.InfoLevel, "password.erp.credentials")
			return
		case errors.As(err, &rejected):
			httpx.LogStatusMsg(w, http.StatusUnprocessableEntity, log.InfoLevel, "password.erp.rejected", "%s", rejected.Message)
			return
		case err != nil:
			httpx.LogBadGateway(w, "password.erp", err)
			return
		}

		// every session of the user must log in again with the new password
		_, err = app.ExecContext(r.Context(), `
			DELETE FROM token
			WHERE username = ?`,
			claims[httpx.ClaimUsername],
		)
		if err != nil {
			httpx.LogInternalError(w, "db.password.delete_tokens", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
