package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/janghjun/healthlog/internal/model"
	"github.com/janghjun/healthlog/internal/store"
	"golang.org/x/text/unicode/norm"
)

// ValidationError reports a required field missing from a new record.
type ValidationError struct {
	Op    string
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s is required", e.Op, e.Field)
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// errNoChange aborts a store update that found nothing to modify.
var errNoChange = errors.New("no change")

func ignoreNoChange(err error) error {
	if errors.Is(err, errNoChange) {
		return nil
	}
	return err
}

func validateNonNegativeFloat(name string, value float64) error {
	if value < 0 {
		return fmt.Errorf("%s must be >= 0", name)
	}
	return nil
}

// normalizeName trims and NFC-composes a display name so that Hangul typed
// on different keyboards compares equal.
func normalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

func validateDate(op, date string) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return "", &ValidationError{Op: op, Field: "date"}
	}
	if _, err := store.ParseDate(date); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return date, nil
}

func utcDate(t time.Time) string {
	return store.FormatDate(t.UTC())
}

func numberOr(current model.Number, patch *model.Number) model.Number {
	if patch == nil {
		return current
	}
	return *patch
}

func stringOr(current string, patch *string) string {
	if patch == nil {
		return current
	}
	return *patch
}

// joinErrors drops nil errors so a single failure is returned unwrapped.
func joinErrors(errs ...error) error {
	var kept []error
	for _, err := range errs {
		if err != nil {
			kept = append(kept, err)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	default:
		return errors.Join(kept...)
	}
}

func persistFailure(err error) error {
	return fmt.Errorf("%w: %v", store.ErrPersist, err)
}
