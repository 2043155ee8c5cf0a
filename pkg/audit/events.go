package audit

import "fmt"

// outcome renders the shared "did / tried to" wording of events.
func outcome(success bool, subject, did, tried, errMsg string) string {
	if success {
		return fmt.Sprintf("%s %s", subject, did)
	}
	msg := fmt.Sprintf("%s tried to %s", subject, tried)
	if errMsg != "" {
		msg += ": " + errMsg
	}
	return msg
}

func severity(success bool) Severity {
	if success {
		return SeverityInfo
	}
	return SeverityWarning
}

// AuthenticateEvent records a credential check
type AuthenticateEvent struct {
	UserID       string
	ClientIP     string
	Method       string
	Success      bool
	ErrorMessage string
}

func (e AuthenticateEvent) MessageID() string {
	return "authn"
}

func (e AuthenticateEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s successfully authenticated with %s", e.UserID, e.Method)
	}
	msg := fmt.Sprintf("%s failed to authenticate with %s", e.UserID, e.Method)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e AuthenticateEvent) Severity() Severity {
	return severity(e.Success)
}

func (e AuthenticateEvent) Facility() int {
	return FacilityAuthPriv
}

func (e AuthenticateEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"authenticator": e.Method,
			"user":          e.UserID,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
	}
}

// AccountEvent records sign-up and credential changes
type AccountEvent struct {
	UserID       string
	ClientIP     string
	Operation    string // sign-up, rotate-secret, change-password
	Success      bool
	ErrorMessage string
}

func (e AccountEvent) MessageID() string {
	return "account"
}

func (e AccountEvent) Message() string {
	subject := e.UserID
	if subject == "" {
		subject = "anonymous"
	}
	return outcome(e.Success, subject, "performed "+e.Operation, e.Operation, e.ErrorMessage)
}

func (e AccountEvent) Severity() Severity {
	return severity(e.Success)
}

func (e AccountEvent) Facility() int {
	return FacilityAuthPriv
}

func (e AccountEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth:   {"user": e.UserID},
		SDIDAction: {"operation": e.Operation, "result": result(e.Success)},
		SDIDClient: {"ip": e.ClientIP},
	}
}

// ProjectEvent records a change to a project
type ProjectEvent struct {
	UserID       string
	ClientIP     string
	ProjectID    string
	Operation    string // create, update, delete
	Success      bool
	ErrorMessage string
}

func (e ProjectEvent) MessageID() string {
	return "project"
}

func (e ProjectEvent) Message() string {
	target := "project " + e.ProjectID
	return outcome(e.Success, e.UserID, pastTense(e.Operation)+" "+target, e.Operation+" "+target, e.ErrorMessage)
}

func (e ProjectEvent) Severity() Severity {
	return severity(e.Success)
}

func (e ProjectEvent) Facility() int {
	return FacilityAuthPriv
}

func (e ProjectEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth:    {"user": e.UserID},
		SDIDSubject: {"project": e.ProjectID},
		SDIDAction:  {"operation": e.Operation, "result": result(e.Success)},
		SDIDClient:  {"ip": e.ClientIP},
	}
}

// FormEvent records a change to a form
type FormEvent struct {
	UserID       string
	ClientIP     string
	ProjectID    string
	FormID       string
	Operation    string // create, delete
	Success      bool
	ErrorMessage string
}

func (e FormEvent) MessageID() string {
	return "form"
}

func (e FormEvent) Message() string {
	target := "form " + e.FormID
	if e.FormID == "" {
		target = "a form in project " + e.ProjectID
	}
	return outcome(e.Success, e.UserID, pastTense(e.Operation)+" "+target, e.Operation+" "+target, e.ErrorMessage)
}

func (e FormEvent) Severity() Severity {
	return severity(e.Success)
}

func (e FormEvent) Facility() int {
	return FacilityAuthPriv
}

func (e FormEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth:    {"user": e.UserID},
		SDIDSubject: {"project": e.ProjectID, "form": e.FormID},
		SDIDAction:  {"operation": e.Operation, "result": result(e.Success)},
		SDIDClient:  {"ip": e.ClientIP},
	}
}

// RecordEvent records a public submission. Submitters are anonymous.
type RecordEvent struct {
	ClientIP     string
	FormID       string
	RecordID     string
	Success      bool
	ErrorMessage string
}

func (e RecordEvent) MessageID() string {
	return "record"
}

func (e RecordEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("record %s submitted to form %s", e.RecordID, e.FormID)
	}
	msg := fmt.Sprintf("submission to form %s rejected", e.FormID)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e RecordEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityNotice
}

func (e RecordEvent) Facility() int {
	return FacilityUser
}

func (e RecordEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDSubject: {"form": e.FormID, "record": e.RecordID},
		SDIDAction:  {"operation": "submit", "result": result(e.Success)},
		SDIDClient:  {"ip": e.ClientIP},
	}
}

func result(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

func pastTense(op string) string {
	switch op {
	case "create":
		return "created"
	case "update":
		return "updated"
	case "delete":
		return "deleted"
	default:
		return op
	}
}
