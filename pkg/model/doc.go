// Package model defines the database models of feedbox.
//
// Ownership runs User 1-* Project 1-* Form 1-* Record, by reference only.
// Identifiers and creation dates are assigned in BeforeCreate hooks. The
// User hooks seal and open the client secret with the cipher found in the
// statement context (see secretbox.NewContext).
//
// Tables:
//
//   - users
//   - projects
//   - forms
//   - records
package model
