package library

// Identity is the caller of an operation, resolved once per request from the
// session and passed explicitly to everything that needs it.
type Identity struct {
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

// Anonymous is the identity of a request without a session.
var Anonymous = Identity{}

func (i Identity) IsAuthenticated() bool {
	return i.Email != ""
}
