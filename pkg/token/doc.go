// Package token issues and verifies the bearer tokens handed out at sign-in.
//
// Tokens are HS256 JWTs whose subject is the user id. They are an
// alternative to sending the client secret with every request.
package token
