package portal

// ShellState is the outcome of the shell's session check for one page
// mount.
type ShellState int

// Shell states.
const (
	// StateUnchecked means the session store has not been consulted yet.
	StateUnchecked ShellState = iota
	// StateRedirecting means no session exists; the surrounding
	// application should navigate to the login entry point and render
	// nothing further.
	StateRedirecting
	// StateAuthorized means a session exists and the shell view carries a
	// role-scoped menu.
	StateAuthorized
)

// ShellView is what the shell hands to the surrounding application for one
// mount: the state decision, the session (when authorized) and the filtered
// navigation menu.
type ShellView struct {
	State   ShellState
	Session *Session
	Menu    []NavItem
}

// Shell gates pages behind "is there a session" and derives the role-scoped
// navigation menu. Its only guarantee is that a session exists; fine-grained
// role gating is the per-page PageGuard's job.
type Shell struct {
	client *Client
	nav    []NavItem
}

// NewShell constructs a shell over the client's session. A nil nav uses the
// portal's default menu.
func NewShell(client *Client, nav []NavItem) *Shell {
	if nav == nil {
		nav = DefaultMenu()
	}
	return &Shell{client: client, nav: nav}
}

// Resolve runs the per-mount state machine: read the session, decide
// between redirect and render, and build the menu for the session's role.
func (s *Shell) Resolve() ShellView {
	if !s.client.IsAuthenticated() {
		return ShellView{State: StateRedirecting}
	}

	session := s.client.CurrentUser()
	if session == nil {
		// Token present but user record missing counts as logged out.
		return ShellView{State: StateRedirecting}
	}

	return ShellView{
		State:   StateAuthorized,
		Session: session,
		Menu:    Menu(s.nav, session.Role),
	}
}

// PageGuard is the declarative per-page role check, composed once per page
// instead of hand-copied role comparisons.
type PageGuard struct {
	allowed map[Role]struct{}
}

// NewPageGuard constructs a guard allowing the given roles. A guard with no
// roles allows any authenticated session.
func NewPageGuard(roles ...Role) PageGuard {
	allowed := make(map[Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return PageGuard{allowed: allowed}
}

// Allows reports whether the session may view the guarded page. The page
// renders an "access restricted" view on denial; the guard never redirects.
func (g PageGuard) Allows(session *Session) bool {
	if session == nil {
		return false
	}
	if len(g.allowed) == 0 {
		return true
	}
	_, ok := g.allowed[session.Role]
	return ok
}
