package plans

type Plan struct {
	ID            uint `gorm:"primaryKey"`
	Name          string
	PriceEUR      float64
	StripePriceID string `gorm:"column:stripe_price_id;not null;uniqueIndex:idx_plans_stripe_price_id"`
	Interval      string
	Tier          string `gorm:"column:tier"` // "solo" | "studio" | "agency"

	// Storage granted to each project owned by a subscriber of this plan.
	StorageQuotaMB int64 `gorm:"column:storage_quota_mb;not null;default:0"`
}
