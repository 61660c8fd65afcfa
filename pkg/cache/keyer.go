package cache

// Keyer builds cache keys. Keys for the same logical entry must be stable
// across processes and releases that share a cache.
type Keyer interface {
	// ReportKey is the key of the duplicate summary for a tree.
	ReportKey(treeHash string, opts ReportKeyOpts) string

	// ArtifactKey is the key of a rendered diagram for a tree.
	ArtifactKey(treeHash string, opts ArtifactKeyOpts) string
}

// ReportKeyOpts lists the options that change a summary. Traversal is not
// one of them: every traversal yields the same report.
type ReportKeyOpts struct {
	Scheme string `json:"scheme"`
	Verify bool   `json:"verify,omitempty"`
}

// ArtifactKeyOpts lists the options that change a rendered diagram.
type ArtifactKeyOpts struct {
	Format    string `json:"format"`
	Highlight bool   `json:"highlight,omitempty"`
	Detailed  bool   `json:"detailed,omitempty"`
}

// DefaultKeyer hashes options into the key so that any option change
// produces a different entry.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the keyer used when none is configured.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ReportKey returns "report:<sha256>".
func (DefaultKeyer) ReportKey(treeHash string, opts ReportKeyOpts) string {
	return hashKey("report", treeHash, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(treeHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", treeHash, opts)
}

var _ Keyer = DefaultKeyer{}
