package utils

import (
	"time"
)

// OTP and compose constants
const (
	// OTPLength is the number of digits in a generated OTP
	OTPLength = 6

	// OTPMessageTemplate seeds the editable message body; %s is the OTP
	OTPMessageTemplate = "Hi. Your OTP is: %s"

	// MaxMessageLength is the longest body the gateway accepts
	MaxMessageLength = 1600

	// RedirectCountdownSteps is the number of ticks before leaving a successful compose
	RedirectCountdownSteps = 3

	// RedirectTickInterval is the duration of a single countdown tick
	RedirectTickInterval = 1 * time.Second

	// ComposeIdleTimeout is how long an untouched compose session, or a finished one
	// nobody read, is kept before the sweeper drops it
	ComposeIdleTimeout = 30 * time.Minute

	// ComposeSweepInterval is how often idle compose sessions are swept
	ComposeSweepInterval = 1 * time.Minute

	// ComposeDrainTimeout bounds how long shutdown waits for in-flight sends
	ComposeDrainTimeout = 30 * time.Second
)

// Route constants for the navigation surface
const (
	RouteContacts = "/"
	RouteMessages = "/messages"
)

// Storage constants
const (
	// MessagesStorageKey is the key the message log is stored under
	MessagesStorageKey = "messages"
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)
