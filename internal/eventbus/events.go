package eventbus

const (
	// SessionExpiredEvent is published by the API transport when the service
	// rejects the session token. There is exactly one subscriber, registered
	// at startup, which tells the user to sign in again.
	SessionExpiredEvent EventType = "session.expired"

	// NotificationEvent carries user-facing success/failure notifications
	// emitted by session and service operations.
	NotificationEvent EventType = "notification.shown"
)

// SessionExpired describes a rejected session token.
type SessionExpired struct {
	// Endpoint is the API path whose response triggered the expiry. The
	// reaction is the same no matter which endpoint it was.
	Endpoint string
}

type NotificationVariant string

const (
	NotificationSuccess NotificationVariant = "success"
	NotificationFailure NotificationVariant = "failure"
)

// Notification is the toast analogue: an observable side effect describing
// the outcome of an operation, not part of its returned result.
type Notification struct {
	Variant     NotificationVariant
	Title       string
	Description string
}
