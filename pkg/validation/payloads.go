package validation

import (
	"strings"

	"github.com/doodlesbykumbi/feedbox/pkg/model"
)

// SignUp is the account registration payload.
type SignUp struct {
	Email    string `json:"email" validate:"email"`
	Password string `json:"password" validate:"min=6"`
	Name     string `json:"name" validate:"min=1,max=50"`
}

func (s *SignUp) normalize() {
	s.Email = strings.ToLower(strings.TrimSpace(s.Email))
	s.Name = strings.TrimSpace(s.Name)
}

// SignIn is the credential exchange payload.
type SignIn struct {
	Email    string `json:"email" validate:"email"`
	Password string `json:"password" validate:"required"`
}

func (s *SignIn) normalize() {
	s.Email = strings.ToLower(strings.TrimSpace(s.Email))
}

// PasswordChange replaces the password of the caller.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"min=6"`
}

// Project is the create and edit payload of a project.
type Project struct {
	Name string  `json:"name" validate:"min=1,max=50"`
	Desc *string `json:"desc,omitempty" validate:"omitempty,max=2000"`
}

func (p *Project) normalize() {
	p.Name = strings.TrimSpace(p.Name)
}

// Form is the create payload of a form.
type Form struct {
	Name      string         `json:"name" validate:"min=1,max=100"`
	Heading   string         `json:"heading" validate:"min=1,max=200"`
	Type      model.FormType `json:"type" validate:"oneof=long short"`
	ProjectID string         `json:"projectId" validate:"identifier"`
}

func (f *Form) normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Heading = strings.TrimSpace(f.Heading)
	f.Type = model.FormType(strings.ToLower(strings.TrimSpace(string(f.Type))))
	f.ProjectID = strings.TrimSpace(f.ProjectID)
}

// Record is a public feedback submission.
type Record struct {
	FormID string   `json:"formId" validate:"identifier"`
	Text   *string  `json:"text,omitempty"`
	Rating *float64 `json:"rating,omitempty"`
}

func (r *Record) normalize() {
	r.FormID = strings.TrimSpace(r.FormID)
}

// ValidateRecord validates a submission including its optional rating bounds.
func ValidateRecord(r *Record, ratingMin, ratingMax *float64) Errors {
	errs := Struct(r)
	if fe := Rating(r.Rating, ratingMin, ratingMax); fe != nil {
		errs = append(errs, *fe)
	}
	return errs
}

// Page selects a window of a listing. A zero Limit means the request gave
// none and the configured default applies.
type Page struct {
	Limit  int `json:"limit" validate:"gte=0"`
	Offset int `json:"offset" validate:"gte=0"`
}
