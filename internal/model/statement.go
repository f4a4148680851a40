package model

import "time"

// Statement is a profile's view of all jobs on its contracts, used for the
// Excel export.
type Statement struct {
	Profile     Profile
	Jobs        []JobWithParties
	GeneratedAt time.Time
}
