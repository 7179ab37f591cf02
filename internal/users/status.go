package users

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

func (s ApprovalStatus) IsValid() bool {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	default:
		return false
	}
}

func (s ApprovalStatus) String() string {
	return string(s)
}

// CanTransitionTo reports whether moderation may move an account from s to next.
// Only pending accounts are moderated; a rejected account can still be approved later.
func (s ApprovalStatus) CanTransitionTo(next ApprovalStatus) bool {
	switch next {
	case ApprovalApproved:
		return s == ApprovalPending || s == ApprovalRejected
	case ApprovalRejected:
		return s == ApprovalPending
	default:
		return false
	}
}
