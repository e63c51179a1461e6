//go:build headless

package gui

import "context"

// Run always fails, as we were built without graphical support.
func Run(ctx context.Context, m Machine, cfg Config) error {
	return ErrUnavailable
}
