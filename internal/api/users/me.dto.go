package users

import "time"

type MeResponse struct {
	User    UserDTO    `json:"user"`
	Billing BillingDTO `json:"billing"`
	Access  AccessDTO  `json:"access"`
	Storage StorageDTO `json:"storage"`
}

/* ---------- USER ---------- */

type UserDTO struct {
	ID         uint   `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Lastname   string `json:"lastname"`
	Role       string `json:"role"`
	IsVerified bool   `json:"is_verified"`
}

/* ---------- BILLING ---------- */

type BillingDTO struct {
	Plan         *PlanDTO         `json:"plan"`
	Subscription *SubscriptionDTO `json:"subscription"`
	Trial        *TrialDTO        `json:"trial"`
}

type PlanDTO struct {
	ID             uint    `json:"id"`
	Key            string  `json:"key"`
	Tier           string  `json:"tier"`
	Interval       string  `json:"interval"`
	PriceEUR       float64 `json:"price_eur"`
	StripePriceID  string  `json:"stripe_price_id"`
	StorageQuotaMB int64   `json:"storage_quota_mb"`
}

type SubscriptionDTO struct {
	Status               string     `json:"status"`
	StartsAt             *time.Time `json:"starts_at"`
	CurrentPeriodEnd     *time.Time `json:"current_period_end"`
	StripeSubscriptionID *string    `json:"stripe_subscription_id"`
}

type TrialDTO struct {
	StartsAt *time.Time `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at"`
	DaysLeft *int       `json:"days_left"`
}

/* ---------- ACCESS ---------- */

type AccessDTO struct {
	State        string   `json:"state"` // trial|full|limited|locked
	Capabilities []string `json:"capabilities"`
}

/* ---------- STORAGE ---------- */

type StorageDTO struct {
	Projects   int   `json:"projects"`
	QuotaBytes int64 `json:"quota_bytes"`
	UsedBytes  int64 `json:"used_bytes"`
}
