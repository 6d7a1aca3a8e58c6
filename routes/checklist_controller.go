package routes

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/mbolis/os-portal/app"
	"github.com/mbolis/os-portal/checklist"
	"github.com/mbolis/os-portal/contele"
	"github.com/mbolis/os-portal/database"
	"github.com/mbolis/os-portal/httpx"
	"github.com/mbolis/os-portal/log"
	"github.com/mbolis/os-portal/model"
	"github.com/mbolis/os-portal/routes/middlewares"
)

const (
	defaultLookups = 20
	maxLookups     = 100
)

type checklistResponse struct {
	Visit     checklist.VisitSummary `json:"visit"`
	Counts    checklist.Counts       `json:"counts"`
	Answers   checklist.Cards        `json:"answers"`
	Questions checklist.TitleMap     `json:"questions"`
}

// Responds to forms API failures. A rejected API key is the server's
// problem, so it surfaces as a bad gateway like any other upstream error.
func upstreamError(w http.ResponseWriter, code string, id any, err error) {
	switch {
	case errors.Is(err, contele.ErrNotFound):
		httpx.LogNotFound(w, code, id)
	case errors.Is(err, contele.ErrInvalidOrder):
		httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, code+".order")
	default:
		httpx.LogBadGateway(w, code, err)
	}
}

func orderParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	os := strings.TrimSpace(chi.URLParam(r, "os"))
	if os == "" {
		httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.os")
		return "", false
	}
	return os, true
}

func GetChecklist(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		os, ok := orderParam(w, r)
		if !ok {
			return
		}

		task, err := app.Forms.FindTaskByOrder(r.Context(), os)
		if err != nil {
			upstreamError(w, "contele.find_task", os, err)
			return
		}

		forms, err := app.Forms.GetVisitForms(r.Context(), task.ID)
		if err != nil {
			upstreamError(w, "contele.get_forms", task.ID, err)
			return
		}

		view := app.Views.View(forms)
		counts := view.Counts()

		_, err = database.RecordLookup(r.Context(), app.DB, model.Lookup{
			Username:     middlewares.Username(r),
			OS:           os,
			TaskID:       task.ID,
			Standard:     counts.Standard,
			Photos:       counts.Photos,
			Videos:       counts.Videos,
			Observations: counts.Observations,
		})
		if err != nil {
			// history is best effort, the checklist is still served
			log.Warnf("db.insert_lookup: %s", err)
		}

		render.JSON(w, r, checklistResponse{
			Visit:     checklist.Summarize(task),
			Counts:    counts,
			Answers:   view.Cards(),
			Questions: view.Titles,
		})
	}
}

func GetTaskByOrder(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		os, ok := orderParam(w, r)
		if !ok {
			return
		}

		task, err := app.Forms.FindTaskByOrder(r.Context(), os)
		if err != nil {
			upstreamError(w, "contele.find_task", os, err)
			return
		}

		render.JSON(w, r, task)
	}
}

func GetVisitForms(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taskID := chi.URLParam(r, "id")

		forms, err := app.Forms.GetVisitForms(r.Context(), taskID)
		if err != nil {
			upstreamError(w, "contele.get_forms", taskID, err)
			return
		}

		render.JSON(w, r, map[string]any{
			"forms": forms,
		})
	}
}

func ListTemplates(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		templates, err := app.Forms.ListTemplates(r.Context())
		if err != nil {
			upstreamError(w, "contele.list_templates", nil, err)
			return
		}

		render.JSON(w, r, map[string]any{
			"templates": templates,
		})
	}
}

func ListLookups(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultLookups
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_query_param.limit")
				return
			}
			limit = min(n, maxLookups)
		}

		lookups, err := database.RecentLookups(r.Context(), app.DB, middlewares.Username(r), limit)
		if err != nil {
			httpx.LogInternalError(w, "db.get_lookups", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"lookups": lookups,
		})
	}
}
