package access

import (
	"testing"
	"time"

	"cutroom/internal/domain/plans"
	"cutroom/internal/domain/users"
)

func strPtr(s string) *string        { return &s }
func timePtr(t time.Time) *time.Time { return &t }

func TestComputeEffectiveAccessState(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		user users.User
		want AccessState
	}{
		{
			name: "active trial",
			user: users.User{TrialEndAt: timePtr(now.Add(24 * time.Hour))},
			want: AccessTrial,
		},
		{
			name: "expired trial no subscription",
			user: users.User{TrialEndAt: timePtr(now.Add(-24 * time.Hour))},
			want: AccessLocked,
		},
		{
			name: "active subscription",
			user: users.User{
				SubscriptionId:           strPtr("sub_1"),
				StripeSubscriptionStatus: strPtr("active"),
			},
			want: AccessFull,
		},
		{
			name: "past due keeps limited access",
			user: users.User{
				SubscriptionId:           strPtr("sub_2"),
				StripeSubscriptionStatus: strPtr("past_due"),
			},
			want: AccessLimited,
		},
		{
			name: "canceled inside paid period",
			user: users.User{
				SubscriptionId:           strPtr("sub_3"),
				StripeSubscriptionStatus: strPtr("canceled"),
				CurrentPeriodEnd:         timePtr(now.Add(48 * time.Hour)),
			},
			want: AccessFull,
		},
		{
			name: "canceled after paid period",
			user: users.User{
				SubscriptionId:           strPtr("sub_4"),
				StripeSubscriptionStatus: strPtr("canceled"),
				CurrentPeriodEnd:         timePtr(now.Add(-time.Hour)),
			},
			want: AccessLocked,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeEffectiveAccessState(now, tc.user)
			if got != tc.want {
				t.Fatalf("state = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestCapabilitiesByTier(t *testing.T) {
	studio := &plans.Plan{Tier: plans.TierStudio}
	agency := &plans.Plan{Tier: plans.TierAgency}

	p := Policy{State: AccessFull, Capabilities: CapabilitiesFor(AccessFull, studio)}
	if !p.Can("password_links") {
		t.Fatalf("studio tier should allow password-protected links")
	}
	if p.Can("multi_project") {
		t.Fatalf("studio tier should not allow multiple projects")
	}

	p = Policy{State: AccessFull, Capabilities: CapabilitiesFor(AccessFull, agency)}
	if !p.Can("multi_project") {
		t.Fatalf("agency tier should allow multiple projects")
	}

	p = Policy{State: AccessLocked, Capabilities: CapabilitiesFor(AccessLocked, agency)}
	if p.Can("upload") {
		t.Fatalf("locked accounts cannot upload")
	}
}
