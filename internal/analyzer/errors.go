package analyzer

import "fmt"

// InputError is the only fatal error class: the analysis root is missing
// or unusable. Every other condition (unreadable files, malformed
// infrastructure blocks, resource caps, enrichment failures) degrades
// gracefully and still yields a complete AnalysisResult.
type InputError struct {
	Path   string
	Reason string
	Err    error
}

func (e *InputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("analyzer: invalid input %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("analyzer: invalid input %s: %s", e.Path, e.Reason)
}

func (e *InputError) Unwrap() error { return e.Err }
