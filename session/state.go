package session

// State is a snapshot of the tracked session. Empty strings mean "not seen yet".
type State struct {
	SessionID     string
	PrincipalName string
}

// HasSession reports whether a session identifier has been captured.
func (s State) HasSession() bool {
	return s.SessionID != ""
}
