// Package identity carries the authenticated caller of a request.
//
// The auth middleware builds an Identity once per request and stores it in
// the request context. Handlers read it back with Get and pass the user id
// to the business rules explicitly; nothing is kept in package state.
//
//	ctx = identity.Set(ctx, identity.New(user.ID, user.Email, identity.MethodToken))
//	id, ok := identity.Get(ctx)
package identity
