package access

type AccessState string

const (
	AccessTrial   AccessState = "trial"
	AccessFull    AccessState = "full"
	AccessLimited AccessState = "limited"
	AccessLocked  AccessState = "locked"
)
