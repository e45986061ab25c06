package core

// GithubSession models the presence or absence of a GitHub bearer token as an
// explicit value instead of ambient state. The zero value is Disconnected.
type GithubSession struct {
	token string
}

// ConnectedSession returns a session holding the given bearer token.
func ConnectedSession(token string) GithubSession {
	return GithubSession{token: token}
}

// DisconnectedSession returns a session with no credential.
func DisconnectedSession() GithubSession {
	return GithubSession{}
}

// Connected reports whether the session holds a token.
func (s GithubSession) Connected() bool {
	return s.token != ""
}

// Token returns the bearer token and whether one is present. Callers must
// check ok rather than passing an empty token downstream.
func (s GithubSession) Token() (token string, ok bool) {
	return s.token, s.token != ""
}
