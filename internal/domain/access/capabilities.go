package access

import (
	"cutroom/internal/domain/plans"
)

func CapabilitiesFor(state AccessState, plan *plans.Plan) []string {
	// locked: read-only
	if state == AccessLocked {
		return []string{}
	}

	// limited (past_due): keep reviewing, block new uploads
	if state == AccessLimited {
		return []string{"share_links"}
	}

	// trial
	if state == AccessTrial {
		return []string{"upload", "share_links"}
	}

	// full: tier-based
	switch plans.PlanTier(plan) {
	case plans.TierSolo:
		return []string{"upload", "share_links"}
	case plans.TierStudio:
		return []string{"upload", "share_links", "password_links", "allow_download"}
	case plans.TierAgency:
		return []string{"upload", "share_links", "password_links", "allow_download", "multi_project"}
	default:
		return []string{"upload", "share_links"}
	}
}
