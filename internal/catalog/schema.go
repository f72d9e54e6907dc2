package catalog

// TemplateSchema is the top-level JSON template file structure.
type TemplateSchema struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Category       string             `json:"category"`
	Description    string             `json:"description,omitempty"`
	TechStack      []string           `json:"tech_stack,omitempty"`
	Difficulty     string             `json:"difficulty,omitempty"`
	EstimatedHours int                `json:"estimated_hours,omitempty"`
	Tags           []string           `json:"tags,omitempty"`
	Public         *bool              `json:"public,omitempty"` // defaults to true
	Files          []FileConfig       `json:"files"`
	Dependencies   []DependencyConfig `json:"dependencies,omitempty"`
}

// FileConfig declares one manifest entry. Exactly one of Content and
// ContentB64 should be set; ContentB64 marks the entry as binary and carries
// base64-encoded bytes that are written verbatim (no substitution).
type FileConfig struct {
	Path       string `json:"path"`
	Content    string `json:"content,omitempty"`
	ContentB64 string `json:"content_b64,omitempty"`
}

// DependencyConfig declares one (name, constraint) requirement.
type DependencyConfig struct {
	Name       string `json:"name"`
	Constraint string `json:"constraint,omitempty"`
}
