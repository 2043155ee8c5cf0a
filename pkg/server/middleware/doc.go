// Package middleware authenticates API requests.
//
// A request is authenticated by either header:
//
//	Authorization: Bearer <token from /v1/auth/sign-in>
//
// or the pair:
//
//	X-User-Id: <user id>
//	X-Client-Secret: <client secret>
//
// The resolved caller is stored with identity.Set. Credentials the checker
// rejects with identity.ErrUnauthenticated answer 401; a checker that cannot
// decide, for instance because the database is down, answers 503.
package middleware
