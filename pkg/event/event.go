package event

import "fmt"

const (
	ReasonDiscovered    = "discovered"
	ReasonStatusChanged = "status-changed"
	ReasonHealthChanged = "health-changed"
	ReasonRemoved       = "removed"
)

type Event struct {
	Cluster    string
	Container  string
	Identifier string
	Reason     string
	From       string
	To         string
}

// Message returns the event message posted to notification backends.
// These correlate to the transitions the webhook publisher detects.
func (e *Event) Message() string {
	subject := e.Container
	if e.Identifier != "" {
		subject = fmt.Sprintf("%s (%s)", e.Container, e.Identifier)
	}
	if e.Cluster != "" {
		subject = fmt.Sprintf("%s/%s", e.Cluster, subject)
	}

	switch e.Reason {
	case ReasonStatusChanged, ReasonHealthChanged:
		return fmt.Sprintf("%s: `%s` %s -> %s", subject, e.Reason, e.From, e.To)
	case ReasonDiscovered:
		return fmt.Sprintf("%s: `%s` status=%s", subject, e.Reason, e.To)
	default:
		return fmt.Sprintf("%s: `%s`", subject, e.Reason)
	}
}
