// Package timeprovider exposes a clock interface so that components which
// make expiry decisions (credential caching, delegation token issuance) can
// be tested against a controllable clock.
package timeprovider

import "time"

// TimeProvider returns the current time.
type TimeProvider interface {
	Now() time.Time
}

// CurrentTimeProvider implements 'TimeProvider' using the system clock.
type CurrentTimeProvider struct{}

var _ TimeProvider = (*CurrentTimeProvider)(nil)

func (tp CurrentTimeProvider) Now() time.Time {
	return time.Now()
}
