package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/goccy/go-json"
	"github.com/mbolis/os-portal/model"
)

// Session is what the portal remembers about a user between token refreshes.
type Session struct {
	Username       string
	UserCode       string
	Permissions    []string
	ChangePassword bool
}

// SaveSession stores the ERP profile of a freshly authenticated user.
func SaveSession(ctx context.Context, db *sql.DB, username string, p model.Profile) error {
	perms := p.Permissions
	if p.MustChangePassword() || perms == nil {
		perms = []string{}
	}
	permsJson, err := json.Marshal(perms)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO profile (username, user_code, permissions, change_password, updated)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (username) DO UPDATE SET
			user_code = excluded.user_code,
			permissions = excluded.permissions,
			change_password = excluded.change_password,
			updated = excluded.updated`,
		username,
		p.UserCode,
		string(permsJson),
		p.MustChangePassword(),
		time.Now(),
	)
	return err
}

// GetSession returns sql.ErrNoRows for users that never logged in.
func GetSession(ctx context.Context, db *sql.DB, username string) (s Session, err error) {
	var perms string
	err = db.QueryRowContext(ctx, `
		SELECT username, user_code, permissions, change_password
		FROM profile
		WHERE username = ?`,
		username,
	).Scan(&s.Username, &s.UserCode, &perms, &s.ChangePassword)
	if err != nil {
		return
	}

	err = json.Unmarshal([]byte(perms), &s.Permissions)
	return
}

func RecordLookup(ctx context.Context, db *sql.DB, l model.Lookup) (id int, err error) {
	if l.Time.IsZero() {
		l.Time = time.Now()
	}
	err = db.QueryRowContext(ctx, `
		INSERT INTO lookup (username, os, task_id, standard, photos, videos, observations, time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		l.Username,
		l.OS,
		l.TaskID,
		l.Standard,
		l.Photos,
		l.Videos,
		l.Observations,
		l.Time,
	).Scan(&id)
	return
}

// RecentLookups lists the latest lookups of a user, newest first.
func RecentLookups(ctx context.Context, db *sql.DB, username string, limit int) ([]model.Lookup, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, username, os, task_id, standard, photos, videos, observations, time
		FROM lookup
		WHERE username = ?
		ORDER BY time DESC, id DESC
		LIMIT ?`,
		username,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lookups := []model.Lookup{}
	for rows.Next() {
		l := model.Lookup{}
		err = rows.Scan(&l.ID, &l.Username, &l.OS, &l.TaskID, &l.Standard, &l.Photos, &l.Videos, &l.Observations, &l.Time)
		if err != nil {
			return nil, err
		}
		lookups = append(lookups, l)
	}
	return lookups, rows.Err()
}
