package plans

import "strings"

const (
	TierNone   = "none"
	TierSolo   = "solo"
	TierStudio = "studio"
	TierAgency = "agency"
)

// PlanTier returns the effective tier for a plan: the stored value when
// valid, else an inference by price as a legacy safety net.
func PlanTier(p *Plan) string {
	if p == nil {
		return TierNone
	}

	tier := strings.ToLower(strings.TrimSpace(p.Tier))
	switch tier {
	case TierSolo, TierStudio, TierAgency:
		return tier
	}

	return inferTierFromPrice(p.PriceEUR)
}

func inferTierFromPrice(priceEUR float64) string {
	switch {
	case priceEUR >= 90:
		return TierAgency
	case priceEUR >= 30:
		return TierStudio
	default:
		return TierSolo
	}
}

// StorageQuotaBytes resolves the per-project quota for a plan, falling back
// to defaultMB for trial users and plans synced without quota metadata.
func StorageQuotaBytes(p *Plan, defaultMB int64) int64 {
	if p != nil && p.StorageQuotaMB > 0 {
		return p.StorageQuotaMB * 1024 * 1024
	}
	return defaultMB * 1024 * 1024
}
