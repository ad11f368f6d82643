package runbook

// ValidationError marks a step that must not run in the current
// environment. A recorded ValidationError aborts the rest of the chain
// without touching the output buffer.
type ValidationError struct {
	message string
}

func (e ValidationError) Error() string {
	return e.message
}

func NewValidationError(message string) ValidationError {
	return ValidationError{message: message}
}

func (e *Executor) validate(command string, interactive bool) error {
	if interactive && !e.env.Console {
		return NewValidationError("Interactive commands can only be run in the console.")
	}

	return nil
}
