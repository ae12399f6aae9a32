package authapi

import "fmt"

// PlatformType is the device class a session is started for. It is fixed at
// session start and affects which guard types the server offers.
type PlatformType int32

const (
	PlatformTypeUnknown     PlatformType = 0
	PlatformTypeSteamClient PlatformType = 1
	PlatformTypeWebBrowser  PlatformType = 2
	PlatformTypeMobileApp   PlatformType = 3
)

func (p PlatformType) String() string {
	switch p {
	case PlatformTypeSteamClient:
		return "SteamClient"
	case PlatformTypeWebBrowser:
		return "WebBrowser"
	case PlatformTypeMobileApp:
		return "MobileApp"
	default:
		return "Unknown"
	}
}

// GuardType identifies one secondary-verification mechanism. The server may
// add new values; anything this package does not know about degrades to
// GuardTypeUnknown rather than being dropped silently.
type GuardType int32

const (
	GuardTypeUnknown            GuardType = 0
	GuardTypeNone               GuardType = 1
	GuardTypeEmailCode          GuardType = 2
	GuardTypeDeviceCode         GuardType = 3
	GuardTypeDeviceConfirmation GuardType = 4
	GuardTypeEmailConfirmation  GuardType = 5
	GuardTypeMachineToken       GuardType = 6
	GuardTypeLegacyMachineAuth  GuardType = 7
)

func (g GuardType) String() string {
	switch g {
	case GuardTypeNone:
		return "None"
	case GuardTypeEmailCode:
		return "EmailCode"
	case GuardTypeDeviceCode:
		return "DeviceCode"
	case GuardTypeDeviceConfirmation:
		return "DeviceConfirmation"
	case GuardTypeEmailConfirmation:
		return "EmailConfirmation"
	case GuardTypeMachineToken:
		return "MachineToken"
	case GuardTypeLegacyMachineAuth:
		return "LegacyMachineAuth"
	default:
		return fmt.Sprintf("Unknown(%d)", int32(g))
	}
}

// IsKnown reports whether g is a guard type this package understands.
func (g GuardType) IsKnown() bool {
	return g >= GuardTypeNone && g <= GuardTypeLegacyMachineAuth
}

// IsCodeEntry reports whether g is satisfied by submitting a typed code, as
// opposed to an out-of-band approval or a machine-token bypass.
func (g GuardType) IsCodeEntry() bool {
	return g == GuardTypeEmailCode || g == GuardTypeDeviceCode
}

// Persistence declares whether the resulting session should survive restarts.
type Persistence int32

const (
	PersistenceInvalid    Persistence = -1
	PersistenceEphemeral  Persistence = 0
	PersistencePersistent Persistence = 1
)

func (p Persistence) String() string {
	switch p {
	case PersistenceEphemeral:
		return "Ephemeral"
	case PersistencePersistent:
		return "Persistent"
	default:
		return "Invalid"
	}
}

// SecurityHistory classifies the login history the server has for the
// requesting device, used to render risk context.
type SecurityHistory int32

const (
	SecurityHistoryInvalid        SecurityHistory = 0
	SecurityHistoryUsedPreviously SecurityHistory = 1
	SecurityHistoryNoPriorHistory SecurityHistory = 2
)

func (s SecurityHistory) String() string {
	switch s {
	case SecurityHistoryUsedPreviously:
		return "UsedPreviously"
	case SecurityHistoryNoPriorHistory:
		return "NoPriorHistory"
	default:
		return "Invalid"
	}
}
