package notifications

const (
	TypeAppraisalSubmitted = "appraisal_submitted"
	TypeApprovalRequired   = "approval_required"
	TypeAppraisalCompleted = "appraisal_completed"
)
