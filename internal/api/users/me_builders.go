package users

import (
	"time"

	"cutroom/database"
	"cutroom/internal/domain/plans"
	"cutroom/internal/domain/projects"
	"cutroom/internal/domain/users"
	"cutroom/internal/infra/stripe"
)

func BuildPlanDTO(p *plans.Plan) *PlanDTO {
	if p == nil {
		return nil
	}
	return &PlanDTO{
		ID:             p.ID,
		Key:            p.Name,
		Tier:           plans.PlanTier(p),
		Interval:       p.Interval,
		PriceEUR:       p.PriceEUR,
		StripePriceID:  p.StripePriceID,
		StorageQuotaMB: p.StorageQuotaMB,
	}
}

func BuildSubscriptionDTO(u users.User) *SubscriptionDTO {
	if u.SubscriptionId == nil || *u.SubscriptionId == "" {
		return nil
	}
	return &SubscriptionDTO{
		Status:               stripe.NormalizeStripeStatus(u.StripeSubscriptionStatus),
		StartsAt:             u.SubscriptionStart,
		CurrentPeriodEnd:     u.CurrentPeriodEnd,
		StripeSubscriptionID: u.SubscriptionId,
	}
}

func BuildTrialDTO(now time.Time, start, end *time.Time) *TrialDTO {
	if start == nil || end == nil {
		return nil
	}

	var daysLeft *int
	if now.Before(*end) {
		d := int(time.Until(*end).Hours() / 24)
		if d < 0 {
			d = 0
		}
		daysLeft = &d
	} else {
		d := 0
		daysLeft = &d
	}

	return &TrialDTO{
		StartsAt: start,
		EndsAt:   end,
		DaysLeft: daysLeft,
	}
}

// BuildStorageDTO sums usage across the user's projects.
func BuildStorageDTO(userID uint) StorageDTO {
	var list []projects.Project
	if err := database.DB.Where("user_id = ?", userID).Find(&list).Error; err != nil {
		return StorageDTO{}
	}
	out := StorageDTO{Projects: len(list)}
	for _, p := range list {
		out.QuotaBytes += p.StorageQuotaBytes
		out.UsedBytes += p.StorageUsedBytes
	}
	return out
}
