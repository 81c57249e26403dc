package auth

// CallContext carries the authenticated caller's identity and authorities
// for the duration of one request. The HTTP layer populates it from the
// validated bearer token; services receive it explicitly on every call.
type CallContext struct {
	Username    string
	Authorities []string
}

const (
	// AuthorityAdmin grants cross-user read, cross-user delete and bypass
	// of the owner-match check.
	AuthorityAdmin = "ROLE_ADMIN"
	// AuthorityUser restricts reads and mutations to the caller's own cards.
	AuthorityUser = "ROLE_USER"
)

// IsAdmin reports whether the caller holds the admin authority.
func (c CallContext) IsAdmin() bool {
	return c.HasAuthority(AuthorityAdmin)
}

// HasAuthority reports whether the caller holds the given authority.
func (c CallContext) HasAuthority(authority string) bool {
	for _, a := range c.Authorities {
		if a == authority {
			return true
		}
	}
	return false
}

// Authenticated reports whether a principal is present. A service call
// reached with an empty context is a programmer error at the boundary.
func (c CallContext) Authenticated() bool {
	return c.Username != ""
}
