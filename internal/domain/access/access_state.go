package access

import (
	"time"

	"cutroom/internal/domain/users"
	"cutroom/internal/infra/stripe"
)

// Effective access for the editor UI: trial|full|limited|locked
func ComputeEffectiveAccessState(now time.Time, u users.User) AccessState {
	// Active trial
	if u.TrialEndAt != nil && now.Before(*u.TrialEndAt) {
		return AccessTrial
	}

	// No subscription at all
	if u.SubscriptionId == nil || *u.SubscriptionId == "" {
		return AccessLocked
	}

	switch stripe.NormalizeStripeStatus(u.StripeSubscriptionStatus) {
	case "active", "trialing":
		return AccessFull

	case "past_due":
		return AccessLimited

	case "canceled":
		// paid-through grace until the period the user already paid for ends
		if u.CurrentPeriodEnd != nil && now.Before(*u.CurrentPeriodEnd) {
			return AccessFull
		}
		return AccessLocked

	default:
		return AccessLocked
	}
}
