// Package retry runs an operation a bounded number of times with a fixed
// delay between tries.
package retry

import "time"

// Sleeper blocks for d. time.Sleep in production, a recorder in tests.
type Sleeper func(d time.Duration)

type stop struct {
	error
}

// Stop wraps err so that For returns it immediately without further tries.
func Stop(err error) error {
	return stop{err}
}

// For calls fn up to attempts times, sleeping delay between failed tries.
// fn receives the 1-based attempt number. There is no sleep after the
// final attempt, so a run that always fails sleeps (attempts-1)*delay.
// The last error is returned; nil means some attempt succeeded.
func For(attempts int, delay time.Duration, sleep Sleeper, fn func(attempt int) error) error {
	if sleep == nil {
		sleep = time.Sleep
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn(attempt)
		if err == nil {
			return nil
		}
		if s, ok := err.(stop); ok {
			// Return the original error for later checking
			return s.error
		}
		if attempt < attempts {
			sleep(delay)
		}
	}
	return err
}
