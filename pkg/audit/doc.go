// Package audit writes security-relevant events as RFC5424 syslog lines.
//
// Events cover authentication, account changes, project and form changes,
// and public record submissions. Lines go to stdout; when
// AUDIT_DATABASE_URL is set they are also stored in the messages table.
//
//	audit.Log(audit.ProjectEvent{UserID: id, ProjectID: pid, Operation: "create", Success: true})
//
// Set FEEDBOX_AUDIT_ENABLED=false to turn auditing off.
package audit
