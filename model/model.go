package model

import "time"

// Answer is one response to one question of a submitted form.
type Answer struct {
	ID             string `json:"id"`
	Answer         string `json:"answer"`
	FormQuestionID string `json:"form_question_id"`
}

type Option struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	MediaRef string `json:"option_avatar_photo_uri,omitempty"`
}

// Segment is a question definition inside a form template.
type Segment struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Title    string   `json:"title"`
	Options  []Option `json:"options"`
	Required bool     `json:"is_required_to_answer"`
}

type Template struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Public        bool      `json:"template_public"`
	SettingsFlags []string  `json:"settings_flags"`
	CreatedAt     string    `json:"created_at"`
	LastUpdate    string    `json:"last_update"`
	Segments      []Segment `json:"segments"`
}

type Form struct {
	ID       string   `json:"forms_id,omitempty"`
	Title    string   `json:"form_title,omitempty"`
	Answers  []Answer `json:"answers"`
	Template Template `json:"template"`
}

type Tag struct {
	ID   string `json:"id"`
	Name string `json:"tagName"`
}

type User struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	PhoneNumber string `json:"phoneNumber"`
}

type Address struct {
	Street string `json:"street"`
	Number string `json:"number"`
	City   string `json:"city"`
	State  string `json:"state"`
}

type POI struct {
	Name    string  `json:"name"`
	Address Address `json:"address"`
}

// Task is a field-service visit, identified externally by its OS number.
type Task struct {
	ID           string  `json:"id"`
	CreatorName  string  `json:"creatorName"`
	Observation  string  `json:"observation"`
	Status       string  `json:"status"`
	OS           string  `json:"os"`
	Tags         []Tag   `json:"tags"`
	CheckinTime  *string `json:"checkinTime"`
	CheckoutTime *string `json:"checkoutTime"`
	POI          POI     `json:"poi"`
	UserData     User    `json:"userData"`
}

// Profile is the ERP login response for a user.
type Profile struct {
	Permissions    []string `json:"direitos"`
	Blocked        string   `json:"bloqueado"`
	ChangePassword string   `json:"trocar_senha"`
	Validity       string   `json:"validade"`
	UserCode       string   `json:"acoduser"`
}

func (p Profile) IsBlocked() bool {
	return p.Blocked == "S"
}

func (p Profile) MustChangePassword() bool {
	return p.ChangePassword == "S"
}

// Lookup records one checklist search made through the portal.
type Lookup struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	OS           string    `json:"os"`
	TaskID       string    `json:"task_id"`
	Standard     int       `json:"standard"`
	Photos       int       `json:"photos"`
	Videos       int       `json:"videos"`
	Observations int       `json:"observations"`
	Time         time.Time `json:"time"`
}
