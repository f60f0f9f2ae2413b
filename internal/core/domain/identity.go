package domain

// Identity is the decoded, request-scoped representation of an authenticated
// caller. The zero value is the anonymous identity.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Anonymous is the identity of a request that presented no valid token.
var Anonymous = Identity{}

func (i Identity) IsAnonymous() bool {
	return i.ID == ""
}

func (i Identity) IsAdmin() bool {
	return !i.IsAnonymous() && i.Role == RoleAdmin
}
