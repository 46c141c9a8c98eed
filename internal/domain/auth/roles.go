package auth

// Role codes are opaque values stored on profiles and embedded in tokens.
// Human-readable names and workflow authorization are configuration keyed by
// these codes, never by login identifiers.
const (
	RoleAppraiser = "appraiser"
	RoleHR        = "hr"
	RoleDocs      = "docs"
	RoleMD        = "md"
	RoleChairman  = "chairman"
)

var AllRoles = []string{
	RoleAppraiser,
	RoleHR,
	RoleDocs,
	RoleMD,
	RoleChairman,
}

var RoleNames = map[string]string{
	RoleAppraiser: "Appraiser/HOD",
	RoleHR:        "HR",
	RoleDocs:      "Docs",
	RoleMD:        "Managing Director",
	RoleChairman:  "Chairman",
}

func ValidRole(role string) bool {
	_, ok := RoleNames[role]
	return ok
}

// UserContext is the authenticated actor threaded through request contexts.
type UserContext struct {
	UserID    string
	ProfileID string
	Role      string
	Name      string
}
