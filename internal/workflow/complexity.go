package workflow

// Complexity is a deterministic banding of project scale.
type Complexity string

const (
	ComplexityMinimal Complexity = "Minimal"
	ComplexityLow     Complexity = "Low"
	ComplexityMedium  Complexity = "Medium"
	ComplexityHigh    Complexity = "High"
)

// Rate scores a project from its file count, distinct language count, and
// detected service count against fixed thresholds. Small projects (a
// handful of services, few dozen files) rate Minimal; the score escalates
// through Low and Medium to High for polyglot, service-heavy codebases.
func Rate(fileCount, languageCount, serviceCount int) Complexity {
	score := 0

	switch {
	case fileCount > 50:
		score += 3
	case fileCount > 20:
		score += 1
	}

	switch {
	case languageCount > 4:
		score += 2
	case languageCount > 2:
		score += 1
	}

	switch {
	case serviceCount > 10:
		score += 3
	case serviceCount > 5:
		score += 2
	case serviceCount > 2:
		score += 1
	}

	switch {
	case score >= 6:
		return ComplexityHigh
	case score >= 4:
		return ComplexityMedium
	case score >= 2:
		return ComplexityLow
	default:
		return ComplexityMinimal
	}
}
