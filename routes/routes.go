package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mbolis/os-portal/app"
	"github.com/mbolis/os-portal/routes/middlewares"
)

// PermChecklist grants access to the OS checklist screens.
const PermChecklist = "CKL"

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.RequestID, middlewares.AccessLog, middleware.Recoverer)

	root.Mount("/api", apiRouter(app))

	root.
		With(middlewares.CookieAuth(app.BearerServer), middlewares.Permission(app.TokenSecret, PermChecklist)).
		Mount("/app", servePrivateFiles("/app"))
	root.Mount("/", servePublicFiles())

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	api.Post("/login", Login(app))
	api.Post("/refresh", Refresh(app))

	api.Group(func(r chi.Router) {
		r.Use(middlewares.Authenticated(app.TokenSecret))

		r.Get("/me", Me(app))
		r.Put("/password", ChangePassword(app))
	})

	api.Group(func(r chi.Router) {
		r.Use(middlewares.Permission(app.TokenSecret, PermChecklist))

		r.Get("/checklists/{os}", GetChecklist(app))
		r.Get("/tasks/{os}", GetTaskByOrder(app))
		r.Get("/visits/{id}/forms", GetVisitForms(app))
		r.Get("/templates", ListTemplates(app))
		r.Get("/lookups", ListLookups(app))
	})

	return api
}

func servePublicFiles() http.Handler {
	return http.FileServer(http.Dir("public"))
}

func servePrivateFiles(path string) http.Handler {
	return http.StripPrefix(path, http.FileServer(http.Dir("private")))
}
