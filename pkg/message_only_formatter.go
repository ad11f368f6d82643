package runbook

import (
	log "github.com/sirupsen/logrus"
)

// MessageOnlyFormatter drops everything but the message itself. Used
// for the `message` output format.
type MessageOnlyFormatter struct {
}

func (f *MessageOnlyFormatter) Format(entry *log.Entry) ([]byte, error) {
	return append([]byte(entry.Message), '\n'), nil
}
