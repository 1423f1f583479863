// Package errs holds the error kinds shared by the identification engine,
// the lookup tables and the loss aggregator.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrDomain reports a query outside the sampled domain of a table.
	ErrDomain = errors.New("domain error")
	// ErrConfiguration reports missing or inconsistent setup data.
	ErrConfiguration = errors.New("configuration error")
	// ErrComputation reports a numerical failure inside a model.
	ErrComputation = errors.New("computation error")
)

// StepError names the step (phenomenon, interpolation, resistance ...) that failed.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Step wraps err with the name of the failing step. A nil err stays nil.
func Step(step string, err error) error {
	if err == nil {
		return nil
	}
	return &StepError{Step: step, Err: err}
}

func Domainf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDomain, fmt.Sprintf(format, args...))
}

func Configf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

func Computef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrComputation, fmt.Sprintf(format, args...))
}

// StepOf returns the innermost failing step name, or "" when err carries none.
func StepOf(err error) string {
	step := ""
	for err != nil {
		var se *StepError
		if !errors.As(err, &se) {
			break
		}
		step = se.Step
		err = se.Err
	}
	return step
}
