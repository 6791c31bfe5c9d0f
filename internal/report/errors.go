package report

import "fmt"

// GenerationError reports that no advisory report could be produced. It
// never affects the verdict.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("AI insight generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
