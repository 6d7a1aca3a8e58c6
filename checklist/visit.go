package checklist

import (
	"fmt"
	"strings"
	"time"

	"github.com/mbolis/os-portal/model"
)

const (
	notAvailable    = "N/A"
	timestampLayout = "02/01/2006 15:04"
)

type VisitSummary struct {
	TaskID      string   `json:"task_id"`
	OS          string   `json:"os"`
	Status      string   `json:"status"`
	Creator     string   `json:"creator"`
	Agent       string   `json:"agent"`
	Place       string   `json:"place"`
	Address     string   `json:"address"`
	Observation string   `json:"observation"`
	Tags        []string `json:"tags"`
	Checkin     string   `json:"checkin"`
	Checkout    string   `json:"checkout"`
	Duration    string   `json:"duration"`
}

func Summarize(task model.Task) VisitSummary {
	tags := make([]string, 0, len(task.Tags))
	for _, t := range task.Tags {
		tags = append(tags, t.Name)
	}

	checkin, checkout := deref(task.CheckinTime), deref(task.CheckoutTime)

	return VisitSummary{
		TaskID:      task.ID,
		OS:          task.OS,
		Status:      task.Status,
		Creator:     task.CreatorName,
		Agent:       task.UserData.Name,
		Place:       task.POI.Name,
		Address:     formatAddress(task.POI.Address),
		Observation: task.Observation,
		Tags:        tags,
		Checkin:     FormatTimestamp(checkin),
		Checkout:    FormatTimestamp(checkout),
		Duration:    VisitDuration(checkin, checkout),
	}
}

// FormatTimestamp renders an RFC 3339 timestamp for display, or "N/A".
func FormatTimestamp(s string) string {
	if s == "" {
		return notAvailable
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return notAvailable
	}
	return t.Format(timestampLayout)
}

// VisitDuration renders the time between checkin and checkout as "1h 5m".
func VisitDuration(checkin, checkout string) string {
	if checkin == "" || checkout == "" {
		return notAvailable
	}
	start, err := time.Parse(time.RFC3339, checkin)
	if err != nil {
		return "0m"
	}
	end, err := time.Parse(time.RFC3339, checkout)
	if err != nil || !end.After(start) {
		return "0m"
	}

	d := end.Sub(start)
	hours := int(d / time.Hour)
	minutes := int((d % time.Hour) / time.Minute)
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

func formatAddress(a model.Address) string {
	var parts []string
	street := strings.TrimSpace(strings.Join([]string{a.Street, a.Number}, ", "))
	street = strings.Trim(street, ", ")
	if street != "" {
		parts = append(parts, street)
	}
	city := strings.Trim(strings.Join([]string{a.City, a.State}, " - "), " -")
	if city != "" {
		parts = append(parts, city)
	}
	return strings.Join(parts, " · ")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
