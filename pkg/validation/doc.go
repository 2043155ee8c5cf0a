// Package validation holds the payload schemas of the feedbox API.
//
// Struct normalizes a payload (trimming names, lower-casing emails) and
// reports every rejected field with a Kind, so callers can show all problems
// at once. It never touches storage.
package validation
