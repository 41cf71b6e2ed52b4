package picker

import "context"

// Picker presents lines to the user and returns the ones they chose. An
// empty result means nothing was chosen.
type Picker interface {
	Pick(ctx context.Context, lines []string, multi bool) ([]string, error)
}

// Func adapts a function to the Picker interface.
type Func func(ctx context.Context, lines []string, multi bool) ([]string, error)

// Pick calls f.
func (f Func) Pick(ctx context.Context, lines []string, multi bool) ([]string, error) {
	return f(ctx, lines, multi)
}
