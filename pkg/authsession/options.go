package authsession

import (
	"time"

	"github.com/tendric/steamauth/pkg/authapi"
	"github.com/tendric/steamauth/pkg/machinetrust"
)

const (
	// DefaultPollRetryCeiling bounds consecutive transport failures inside
	// the poll loop before the session is surfaced as failed.
	DefaultPollRetryCeiling = 5

	// DefaultMinPollInterval is the floor applied when the server supplies a
	// zero or implausibly small interval.
	DefaultMinPollInterval = 1 * time.Second

	defaultWebsiteID = "Client"
)

// Option configures a Service
type Option func(*Service)

// WithMachineTrust attaches a machine-trust token store. When present, the
// engine presents cached tokens on session start and records rotations from
// poll results.
func WithMachineTrust(trust *machinetrust.Service) Option {
	return func(s *Service) {
		s.trust = trust
	}
}

// WithPlatformType sets the device class declared on every session start.
func WithPlatformType(pt authapi.PlatformType) Option {
	return func(s *Service) {
		s.platformType = pt
	}
}

// WithDeviceDetails sets the device description sent on session start.
func WithDeviceDetails(dd authapi.DeviceDetails) Option {
	return func(s *Service) {
		s.deviceDetails = &dd
	}
}

// WithWebsiteID overrides the website id declared on session start.
func WithWebsiteID(id string) Option {
	return func(s *Service) {
		s.websiteID = id
	}
}

// WithPollRetryCeiling bounds consecutive transport failures tolerated by
// the poll loop. Server policy does not specify a value, so it is
// configurable rather than fixed.
func WithPollRetryCeiling(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.pollRetryCeiling = n
		}
	}
}

// WithOverallTimeout imposes a caller deadline on Wait. Expiry reports
// TimedOut, distinct from a server-declared session expiry. Zero means no
// deadline beyond the context's own.
func WithOverallTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.overallTimeout = d
	}
}

// WithMinPollInterval sets the floor for the poll cadence.
func WithMinPollInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.minPollInterval = d
		}
	}
}
