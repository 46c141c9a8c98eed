package auth

import "context"

const (
	PermAppraisalsRead    = "appraisals.read"
	PermAppraisalsCreate  = "appraisals.create"
	PermAppraisalsApprove = "appraisals.approve"
	PermReportsRead       = "reports.read"
	PermAuditRead         = "audit.read"
)

var DefaultPermissions = []string{
	PermAppraisalsRead,
	PermAppraisalsCreate,
	PermAppraisalsApprove,
	PermReportsRead,
	PermAuditRead,
}

// RolePermissions is static configuration: which surface each role may reach.
// Which role may approve a given appraisal at a given step is decided by the
// workflow table, not here.
var RolePermissions = map[string][]string{
	RoleAppraiser: {
		PermAppraisalsRead,
		PermAppraisalsCreate,
		PermReportsRead,
	},
	RoleHR: {
		PermAppraisalsRead,
		PermAppraisalsApprove,
		PermReportsRead,
		PermAuditRead,
	},
	RoleDocs: {
		PermAppraisalsRead,
		PermAppraisalsApprove,
		PermReportsRead,
	},
	RoleMD: {
		PermAppraisalsRead,
		PermAppraisalsApprove,
		PermReportsRead,
		PermAuditRead,
	},
	RoleChairman: {
		PermAppraisalsRead,
		PermAppraisalsApprove,
		PermReportsRead,
		PermAuditRead,
	},
}

// Permissions answers permission checks from the static role table.
type Permissions struct{}

func (Permissions) HasPermission(_ context.Context, role, permission string) (bool, error) {
	for _, candidate := range RolePermissions[role] {
		if candidate == permission {
			return true, nil
		}
	}
	return false, nil
}
