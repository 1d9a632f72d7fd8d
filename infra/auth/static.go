// Package auth provides a static administrator list backing the
// authorization collaborator.
package auth

// Static implements auth.Authorizer from a fixed set of administrator
// identities loaded from configuration.
type Static struct {
	admins map[string]struct{}
}

// NewStatic creates a Static authorizer for the given administrators.
func NewStatic(admins ...string) *Static {
	set := make(map[string]struct{}, len(admins))
	for _, a := range admins {
		set[a] = struct{}{}
	}
	return &Static{admins: set}
}

// IsAdministrator reports whether the caller is a configured administrator.
func (s *Static) IsAdministrator(caller string) bool {
	_, ok := s.admins[caller]
	return ok
}
