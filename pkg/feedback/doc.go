// Package feedback holds the business rules of the service: accounts, the
// ownership chain User → Project → Form → Record, the soft-delete lifecycle
// of projects and forms, and the aggregation of submitted ratings.
//
// Every operation validates its input before touching storage, and every
// owner-scoped operation loads the ancestor chain and compares its owner to
// the caller. Nothing trusts ids supplied by clients.
//
// Errors fall into a small taxonomy that transports map onto responses:
//
//   - *ValidationError: malformed input, with field-level failures
//   - ErrUnauthenticated: unknown or wrong credentials
//   - ErrForbidden: the caller does not own the target
//   - ErrNotFound: the target is missing or soft-deleted
//   - ErrConflict: a unique value is taken
//   - *TransientError: storage failed; the request may be retried
package feedback
