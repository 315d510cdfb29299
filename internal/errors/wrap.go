package errors

import "fmt"

// Wrap adds context to an error at a package boundary and returns nil for a nil
// error, so it can be used inline:
//
//	return errors.Wrap(err, "failed to stage bundle")
//
// The sentinel stays reachable through errors.Is().
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf is Wrap with a formatted message:
//
//	return errors.Wrapf(err, "failed to hash %s", path)
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
