package model

// User is a registered account. The password is only ever stored as a
// bcrypt hash; plaintext never reaches the database.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

// Principal is the identity attached to a request. It wraps an optional
// User resolved from the session cookie at the start of the request;
// a nil User means the request is anonymous.
type Principal struct {
	User *User
}

func Anonymous() Principal {
	return Principal{}
}

func (p Principal) IsAuthenticated() bool {
	return p.User != nil
}

func (p Principal) IsAnonymous() bool {
	return p.User == nil
}

// IsActive reports whether the principal may act. There is no account
// suspension flow, so any authenticated user is active.
func (p Principal) IsActive() bool {
	return p.User != nil
}
