package notifier

// TextNotifier is the minimal outbound notification interface. Delivery is
// fire-and-forget: callers log failures and never retry or propagate them.
type TextNotifier interface {
	SendText(text string) error
}

// Noop is used when no notification channel is configured.
type Noop struct{}

func (Noop) SendText(string) error { return nil }
