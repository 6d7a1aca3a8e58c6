package app

import (
	"context"
	"database/sql"

	"github.com/go-chi/oauth"
	"github.com/mbolis/os-portal/checklist"
	"github.com/mbolis/os-portal/config"
	"github.com/mbolis/os-portal/httpx"
	"github.com/mbolis/os-portal/model"
)

// FormsAPI is the subset of the forms API the portal reads from.
type FormsAPI interface {
	FindTaskByOrder(ctx context.Context, number string) (model.Task, error)
	GetVisitForms(ctx context.Context, taskID string) ([]model.Form, error)
	ListTemplates(ctx context.Context) ([]model.Template, error)
}

// ERP authenticates users and changes their passwords.
type ERP interface {
	httpx.Authenticator
	ChangePassword(ctx context.Context, userCode, oldPassword, newPassword string) error
}

type App struct {
	*sql.DB
	*oauth.BearerServer
	config.Config
	ERP   ERP
	Forms FormsAPI
	Views *checklist.Memo
}
