package provider

import (
	"fmt"
	"strings"
)

// Failure is a typed per-adapter failure. Adapters return data or a
// Failure; the chain inspects them in order instead of relying on panics
// or sentinel errors.
type Failure struct {
	Source string
	Reason string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Source, f.Reason)
}

// ChainError reports that every adapter failed for a season. It is the
// only fatal outcome of the weekly chain.
type ChainError struct {
	Season   int
	Failures []*Failure
}

func (e *ChainError) Error() string {
	reasons := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		reasons = append(reasons, f.Error())
	}
	return fmt.Sprintf("no weekly data sources succeeded for season=%d: %s",
		e.Season, strings.Join(reasons, "; "))
}
