// Package auth defines the authorization collaborator gating schedule
// creation and revocation.
package auth

// Authorizer reports whether a caller holds the administrator capability.
type Authorizer interface {
	IsAdministrator(caller string) bool
}
