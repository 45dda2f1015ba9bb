package cache

// SolveKeyOpts are the options that change a solve's output.
// Worker counts never change a result and are not part of the key.
type SolveKeyOpts struct {
	Policy  string   `json:"policy"`
	Pattern []string `json:"pattern"`
}

// Keyer generates cache keys.
type Keyer interface {
	// SolveKey names a full solve of the input with the given hash.
	SolveKey(inputHash string, opts SolveKeyOpts) string
	// CornersKey names a corner-only solve of the input with the given hash.
	CornersKey(inputHash string) string
	// ResultKey names a result stored under an external identifier.
	ResultKey(id string) string
}

// DefaultKeyer is the standard key scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// SolveKey returns "solve:<hash of input and options>".
func (DefaultKeyer) SolveKey(inputHash string, opts SolveKeyOpts) string {
	return hashKey("solve", inputHash, opts)
}

// CornersKey returns "corners:<hash of input>".
func (DefaultKeyer) CornersKey(inputHash string) string {
	return hashKey("corners", inputHash)
}

// ResultKey returns "result:<id>".
func (DefaultKeyer) ResultKey(id string) string {
	return "result:" + id
}
