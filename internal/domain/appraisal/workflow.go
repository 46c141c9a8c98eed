package appraisal

import "appraise/internal/domain/auth"

// statusOrder is the total order of workflow states. Submission jumps straight
// to pending_hr_approval; draft exists in the table but is never persisted by
// the creation path.
var statusOrder = []string{
	StatusDraft,
	StatusPendingHR,
	StatusPendingDocs,
	StatusPendingMD,
	StatusPendingChairman,
	StatusCompleted,
}

// requiredRole maps each non-terminal status to the single role allowed to act
// on it. Completed has no entry: no further transitions exist.
var requiredRole = map[string]string{
	StatusDraft:           auth.RoleAppraiser,
	StatusPendingHR:       auth.RoleHR,
	StatusPendingDocs:     auth.RoleDocs,
	StatusPendingMD:       auth.RoleMD,
	StatusPendingChairman: auth.RoleChairman,
}

// ValidStatus reports whether status is one of the six defined workflow states.
func ValidStatus(status string) bool {
	for _, candidate := range statusOrder {
		if candidate == status {
			return true
		}
	}
	return false
}

// RequiredRole returns the role permitted to act on the given status. The
// second return is false for the terminal status and for unknown values.
func RequiredRole(status string) (string, bool) {
	role, ok := requiredRole[status]
	return role, ok
}

// CanAct reports whether the role is the one authorized to act on the status.
// It gates action availability only; the store-level checks remain the
// authoritative enforcement.
func CanAct(status, role string) bool {
	required, ok := requiredRole[status]
	return ok && required == role
}

// Next returns the status that follows the given one in the fixed order.
// Completed is terminal and returns itself.
func Next(status string) string {
	for i, candidate := range statusOrder {
		if candidate != status {
			continue
		}
		if i+1 < len(statusOrder) {
			return statusOrder[i+1]
		}
		return candidate
	}
	return status
}
