// Package contele talks to the Contele forms API, where field agents fill in
// the checklists of each visit.
package contele

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/mbolis/os-portal/config"
	"github.com/mbolis/os-portal/model"
	"github.com/pkg/errors"
)

var (
	ErrNotFound     = errors.New("contele: not found")
	ErrUnauthorized = errors.New("contele: unauthorized")
	ErrInvalidOrder = errors.New("contele: empty order number")
)

// StatusError is an unexpected HTTP status from the API.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("contele: status %d: %s", e.Status, e.Body)
}

type Client struct {
	http *resty.Client
}

func New(cfg config.Upstream) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(cfg.ConteleURL, "/")).
		SetHeader("Accept", "application/json").
		SetHeader("x-api-key", cfg.ConteleAPIKey).
		SetTimeout(cfg.Timeout).
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)

	return &Client{http: c}
}

type tasksResponse struct {
	Tasks []model.Task `json:"tasks"`
}

type formsResponse struct {
	Forms []model.Form `json:"forms"`
}

type templatesResponse struct {
	Templates []model.Template `json:"templates"`
}

func (c *Client) get(ctx context.Context, op, path string, params map[string]string, out any) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(out).
		ForceContentType("application/json").
		Get(path)
	if err != nil {
		return errors.Wrap(err, op)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	default:
		return errors.WithMessage(&StatusError{Status: resp.StatusCode(), Body: resp.String()}, op)
	}
}

func (c *Client) ListTasks(ctx context.Context) ([]model.Task, error) {
	var out tasksResponse
	if err := c.get(ctx, "contele.list_tasks", "/tasks", nil, &out); err != nil {
		return nil, err
	}
	if out.Tasks == nil {
		out.Tasks = []model.Task{}
	}
	return out.Tasks, nil
}

func (c *Client) GetTask(ctx context.Context, id string) (model.Task, error) {
	var task model.Task
	err := c.get(ctx, "contele.get_task", "/tasks/"+url.PathEscape(id), nil, &task)
	return task, err
}

// FindTaskByOrder finds the visit of an ERP order. Agents either fill the
// OS field with the order number or mention it in the task observation.
func (c *Client) FindTaskByOrder(ctx context.Context, number string) (model.Task, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return model.Task{}, ErrInvalidOrder
	}

	tasks, err := c.ListTasks(ctx)
	if err != nil {
		return model.Task{}, err
	}
	for _, t := range tasks {
		if t.OS == number {
			return t, nil
		}
	}
	for _, t := range tasks {
		if strings.Contains(t.Observation, number) {
			return t, nil
		}
	}
	return model.Task{}, ErrNotFound
}

// GetVisitForms returns the submitted forms of a visit. Answers and segments
// are never nil.
func (c *Client) GetVisitForms(ctx context.Context, taskID string) ([]model.Form, error) {
	var out formsResponse
	err := c.get(ctx, "contele.get_forms", "/forms", map[string]string{"task_id": taskID}, &out)
	if err != nil {
		return nil, err
	}

	forms := out.Forms
	if forms == nil {
		forms = []model.Form{}
	}
	for i := range forms {
		if forms[i].Answers == nil {
			forms[i].Answers = []model.Answer{}
		}
		if forms[i].Template.Segments == nil {
			forms[i].Template.Segments = []model.Segment{}
		}
	}
	return forms, nil
}

func (c *Client) ListTemplates(ctx context.Context) ([]model.Template, error) {
	var out templatesResponse
	if err := c.get(ctx, "contele.list_templates", "/forms/templates", nil, &out); err != nil {
		return nil, err
	}
	if out.Templates == nil {
		out.Templates = []model.Template{}
	}
	return out.Templates, nil
}
