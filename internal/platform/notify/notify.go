package notify

// Notification is a short user-facing toast.
type Notification struct {
	Title   string
	Message string
}

// Notifier delivers notifications to the user's desktop.
type Notifier interface {
	Send(n Notification) error
}

// NoopNotifier does nothing, for tests and headless runs.
type NoopNotifier struct{}

func (NoopNotifier) Send(Notification) error { return nil }
