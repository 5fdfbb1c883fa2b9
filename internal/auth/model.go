package auth

// RoleOrganizer is the only privileged role. Organizers record members,
// matches and results.
const RoleOrganizer = "organizer"

// Identity is stored in the request context after authentication.
type Identity struct {
	Role string
	// Anonymous is set when organizer auth is disabled.
	Anonymous bool
}
