package access

import (
	"time"

	"cutroom/internal/domain/users"
)

type Policy struct {
	State        AccessState
	Capabilities []string
}

func ComputePolicy(now time.Time, u users.User) Policy {
	state := ComputeEffectiveAccessState(now, u)

	return Policy{
		State:        state,
		Capabilities: CapabilitiesFor(state, u.Plan),
	}
}

func (p Policy) Can(capability string) bool {
	for _, c := range p.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}
