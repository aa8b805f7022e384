package timing

import (
	"errors"
	"fmt"
)

var (
	ErrTimerNotStarted    = errors.New("timer has not been started")
	ErrDurationNotFound   = errors.New("timer has not been stopped or does not exist")
	ErrHeadersAlreadySent = errors.New("headers have already been sent")
)

// TimerError ties a registry failure to the timer name that caused it.
type TimerError struct {
	Name string
	Err  error
}

func (e *TimerError) Error() string {
	return fmt.Sprintf("timer %q: %v", e.Name, e.Err)
}

func (e *TimerError) Unwrap() error {
	return e.Err
}
