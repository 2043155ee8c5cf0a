package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
)

type account struct {
	id             string
	email          string
	secret         string
	previousSecret string
	token          string
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []struct {
		Field string `json:"field"`
		Kind  string `json:"kind"`
	} `json:"errors"`
}

// StepsContext holds state shared between the steps of one scenario
type StepsContext struct {
	tc       *TestContext
	run      string
	accounts map[string]*account
	projects map[string]string
	forms    map[string]string

	status int
	body   envelope
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{
		tc:       tc,
		run:      uuid.NewString()[:8],
		accounts: make(map[string]*account),
		projects: make(map[string]string),
		forms:    make(map[string]string),
	}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Step(`^a Feedbox server is running$`, s.aFeedboxServerIsRunning)
	sc.Step(`^a user "([^"]*)" has signed up$`, s.aUserHasSignedUp)

	sc.Step(`^"([^"]*)" creates a project named "([^"]*)"$`, s.createsAProjectNamed)
	sc.Step(`^"([^"]*)" deletes the project "([^"]*)"$`, s.deletesTheProject)
	sc.Step(`^"([^"]*)" creates a "([^"]*)" form "([^"]*)" headed "([^"]*)" in project "([^"]*)"$`, s.createsAForm)
	sc.Step(`^"([^"]*)" lists the forms of project "([^"]*)"$`, s.listsTheFormsOfProject)
	sc.Step(`^"([^"]*)" reads the summary of form "([^"]*)"$`, s.readsTheSummaryOfForm)
	sc.Step(`^an anonymous visitor submits a rating of (\d+) to form "([^"]*)"$`, s.anonymousSubmitsRating)
	sc.Step(`^an anonymous visitor submits to form id "([^"]*)"$`, s.anonymousSubmitsToFormID)

	sc.Step(`^"([^"]*)" asks who they are using the client secret$`, s.whoamiWithSecret)
	sc.Step(`^"([^"]*)" asks who they are using the previous client secret$`, s.whoamiWithPreviousSecret)
	sc.Step(`^"([^"]*)" rotates the client secret$`, s.rotatesTheClientSecret)

	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the project "([^"]*)" should not be deleted$`, s.theProjectShouldNotBeDeleted)
	sc.Step(`^the listing should include "([^"]*)"$`, s.theListingShouldInclude)
	sc.Step(`^the summary should count (\d+) records? averaging (\d+)$`, s.theSummaryShouldCount)
	sc.Step(`^the response should report "([^"]*)" as "([^"]*)"$`, s.theResponseShouldReport)
}

func (s *StepsContext) aFeedboxServerIsRunning() error {
	// Server is already running via TestContext
	return nil
}

// request sends a JSON request and records the status and envelope.
func (s *StepsContext) request(method, path string, body any, auth func(*http.Request)) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, s.tc.ServerURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != nil {
		auth(req)
	}

	resp, err := s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	s.status = resp.StatusCode
	s.body = envelope{}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, &s.body); err != nil {
		return fmt.Errorf("response is not a JSON envelope: %s", raw)
	}
	return nil
}

func bearer(a *account) func(*http.Request) {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+a.token)
	}
}

func clientSecret(a *account, secret string) func(*http.Request) {
	return func(r *http.Request) {
		r.Header.Set("X-User-Id", a.id)
		r.Header.Set("X-Client-Secret", secret)
	}
}

func (s *StepsContext) account(name string) (*account, error) {
	a, ok := s.accounts[name]
	if !ok {
		return nil, fmt.Errorf("no user %q in this scenario", name)
	}
	return a, nil
}

func (s *StepsContext) decode(dst any) error {
	if len(s.body.Data) == 0 {
		return fmt.Errorf("response has no data (status %d, message %q)", s.status, s.body.Message)
	}
	return json.Unmarshal(s.body.Data, dst)
}

func (s *StepsContext) aUserHasSignedUp(name string) error {
	// scenarios share the database, so emails are made unique per scenario
	email := strings.Replace(name, "@", "+"+s.run+"@", 1)
	password := "correct horse battery staple"

	if err := s.request("POST", "/v1/auth/sign-up", map[string]string{
		"email": email, "password": password, "name": strings.Split(name, "@")[0],
	}, nil); err != nil {
		return err
	}
	if s.status != http.StatusCreated {
		return fmt.Errorf("sign-up returned %d: %s", s.status, s.body.Message)
	}
	var created struct {
		ID           string `json:"id"`
		ClientSecret string `json:"clientSecret"`
	}
	if err := s.decode(&created); err != nil {
		return err
	}

	if err := s.request("POST", "/v1/auth/sign-in", map[string]string{"email": email, "password": password}, nil); err != nil {
		return err
	}
	if s.status != http.StatusOK {
		return fmt.Errorf("sign-in returned %d: %s", s.status, s.body.Message)
	}
	var session struct {
		Token string `json:"token"`
	}
	if err := s.decode(&session); err != nil {
		return err
	}

	s.accounts[name] = &account{id: created.ID, email: email, secret: created.ClientSecret, token: session.Token}
	return nil
}

func (s *StepsContext) createsAProjectNamed(user, name string) error {
	a, err := s.account(user)
	if err != nil {
		return err
	}
	if err := s.request("POST", "/v1/project", map[string]string{"name": name}, bearer(a)); err != nil {
		return err
	}
	if s.status == http.StatusCreated {
		var project struct {
			ID string `json:"id"`
		}
		if err := s.decode(&project); err != nil {
			return err
		}
		s.projects[name] = project.ID
	}
	return nil
}

func (s *StepsContext) deletesTheProject(user, name string) error {
	a, err := s.account(user)
	if err != nil {
		return err
	}
	return s.request("DELETE", "/v1/project/"+s.projects[name], nil, bearer(a))
}

func (s *StepsContext) createsAForm(user, formType, name, heading, project string) error {
	a, err := s.account(user)
	if err != nil {
		return err
	}
	if err := s.request("POST", "/v1/form", map[string]string{
		"name": name, "heading": heading, "type": formType, "projectId": s.projects[project],
	}, bearer(a)); err != nil {
		return err
	}
	if s.status == http.StatusCreated {
		var form struct {
			ID        string `json:"id"`
			ProjectID string `json:"projectId"`
		}
		if err := s.decode(&form); err != nil {
			return err
		}
		if form.ProjectID != s.projects[project] {
			return fmt.Errorf("form linked to %s, expected %s", form.ProjectID, s.projects[project])
		}
		s.forms[name] = form.ID
	}
	return nil
}

func (s *StepsContext) listsTheFormsOfProject(user, project string) error {
	a, err := s.account(user)
	if err != nil {
		return err
	}
	return s.request("GET", "/v1/form?projectId="+s.projects[project], nil, bearer(a))
}

func (s *StepsContext) readsTheSummaryOfForm(user, form string) error {
	a, err := s.account(user)
	if err != nil {
		return err
	}
	return s.request("GET", "/v1/form/"+s.forms[form]+"/summary", nil, bearer(a))
}

func (s *StepsContext) anonymousSubmitsRating(rating int, form string) error {
	return s.request("POST", "/v1/record", map[string]any{"formId": s.forms[form], "rating": rating}, nil)
}

func (s *StepsContext) anonymousSubmitsToFormID(formID string) error {
	return s.request("POST", "/v1/record", map[string]any{"formId": formID, "text": "hello"}, nil)
}

func (s *StepsContext) whoamiWithSecret(user string) error {
	a, err := s.account(user)
	if err != nil {
		return err
	}
	return s.request("GET", "/v1/whoami", nil, clientSecret(a, a.secret))
}

func (s *StepsContext) whoamiWithPreviousSecret(user string) error {
	a, err := s.account(user)
	if err != nil {
		return err
	}
	return s.request("GET", "/v1/whoami", nil, clientSecret(a, a.previousSecret))
}

func (s *StepsContext) rotatesTheClientSecret(user string) error {
	a, err := s.account(user)
	if err != nil {
		return err
	}
	if err := s.request("POST", "/v1/user/secret", nil, bearer(a)); err != nil {
		return err
	}
	if s.status == http.StatusOK {
		var rotated struct {
			ClientSecret string `json:"clientSecret"`
		}
		if err := s.decode(&rotated); err != nil {
			return err
		}
		a.previousSecret, a.secret = a.secret, rotated.ClientSecret
	}
	return nil
}

func (s *StepsContext) theResponseStatusShouldBe(expected int) error {
	if s.status != expected {
		return fmt.Errorf("expected status %d, got %d: %s", expected, s.status, s.body.Message)
	}
	return nil
}

func (s *StepsContext) theProjectShouldNotBeDeleted(name string) error {
	var project struct {
		ID        string `json:"id"`
		IsDeleted bool   `json:"isDeleted"`
	}
	if err := s.decode(&project); err != nil {
		return err
	}
	if project.ID != s.projects[name] || project.IsDeleted {
		return fmt.Errorf("unexpected project %+v", project)
	}
	return nil
}

func (s *StepsContext) theListingShouldInclude(name string) error {
	var list struct {
		Items []struct {
			Name string `json:"name"`
		} `json:"items"`
	}
	if err := s.decode(&list); err != nil {
		return err
	}
	for _, item := range list.Items {
		if item.Name == name {
			return nil
		}
	}
	return fmt.Errorf("%q not in listing", name)
}

func (s *StepsContext) theSummaryShouldCount(total int, average int) error {
	var summary struct {
		Total         int      `json:"total"`
		AverageRating *float64 `json:"averageRating"`
	}
	if err := s.decode(&summary); err != nil {
		return err
	}
	if summary.Total != total {
		return fmt.Errorf("expected %d records, got %d", total, summary.Total)
	}
	if summary.AverageRating == nil || *summary.AverageRating != float64(average) {
		return fmt.Errorf("expected average %d, got %v", average, summary.AverageRating)
	}
	return nil
}

func (s *StepsContext) theResponseShouldReport(field, kind string) error {
	for _, fe := range s.body.Errors {
		if fe.Field == field && fe.Kind == kind {
			return nil
		}
	}
	return fmt.Errorf("no %s error on %s in %+v", kind, field, s.body.Errors)
}
