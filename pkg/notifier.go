package runbook

import (
	"github.com/runbook-sh/runbook/pkg/notify"
)

// Notifier delivers the desktop notifications ordered via
// Executor.Notify.
type Notifier interface {
	Notify(title, body string) error
}

// DesktopNotifier delivers through the native notification tool of the
// host OS.
type DesktopNotifier struct{}

func NewDesktopNotifier() DesktopNotifier {
	return DesktopNotifier{}
}

func (DesktopNotifier) Notify(title, body string) error {
	return notify.Send(title, body)
}
