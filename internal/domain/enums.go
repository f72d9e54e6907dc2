package domain

type VersionStatus string

const (
	VersionDraft    VersionStatus = "draft"
	VersionActive   VersionStatus = "active"
	VersionArchived VersionStatus = "archived"
)

// CanTransitionTo reports whether the status machine permits moving from s
// to next. Archived is terminal; draft may become active or archived; active
// may only become archived.
func (s VersionStatus) CanTransitionTo(next VersionStatus) bool {
	switch s {
	case VersionDraft:
		return next == VersionActive || next == VersionArchived
	case VersionActive:
		return next == VersionArchived
	default:
		return false
	}
}

type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "active"
	ProjectArchived ProjectStatus = "archived"
)

type GenerationStatus string

const (
	GenerationSucceeded GenerationStatus = "succeeded"
	GenerationFailed    GenerationStatus = "failed"
)

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// ValidDifficulties is the canonical set of accepted difficulty strings.
var ValidDifficulties = map[string]bool{
	"beginner": true, "intermediate": true, "advanced": true,
}
