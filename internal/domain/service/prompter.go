package service

import "context"

// Prompter is the conflict-resolution surface of the presentation layer.
type Prompter interface {
	// Choose presents candidates for a taken name. It returns the selected
	// candidate and true, or false when the user dismissed the prompt.
	Choose(ctx context.Context, requested string, candidates []string) (string, bool)
}
