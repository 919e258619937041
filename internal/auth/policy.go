package auth

// Action is a booking operation gated by the policy.
type Action string

const (
	ActionView              Action = "view"
	ActionUpdate            Action = "update"
	ActionCancel            Action = "cancel"
	ActionTenantCheckout    Action = "tenant_checkout"
	ActionDecideNegotiation Action = "decide_negotiation"
	ActionOwnerConfirm      Action = "owner_confirm"
	ActionDispute           Action = "dispute"
	ActionAdmin             Action = "admin"
)

// Resource identifies the booking's parties. OwnerID may be zero when the
// property owner could not be resolved; owner-gated actions then deny.
type Resource struct {
	TenantID int64
	OwnerID  int64
}

// Authorize is the single allow/deny decision for every operation. Admins
// pass every check; otherwise the actor must be the party the action
// belongs to.
func Authorize(actor Actor, action Action, res Resource) error {
	if !actor.Authenticated {
		return ErrUnauthenticated
	}
	if actor.IsAdmin() {
		return nil
	}
	switch action {
	case ActionUpdate, ActionCancel, ActionTenantCheckout:
		if actor.UserID == res.TenantID {
			return nil
		}
	case ActionDecideNegotiation, ActionOwnerConfirm:
		if res.OwnerID != 0 && actor.UserID == res.OwnerID {
			return nil
		}
	case ActionView, ActionDispute:
		if (res.TenantID != 0 && actor.UserID == res.TenantID) ||
			(res.OwnerID != 0 && actor.UserID == res.OwnerID) {
			return nil
		}
	case ActionAdmin:
		// admin only, fall through
	}
	return ErrForbidden
}
