package types

// Artifact is a single concrete built package: the parsed form of an
// index entry keyed by filename ("name-version-build.tar.bz2").
type Artifact struct {
	Filename string `json:"-"`
	Name     string `json:"name"`
	Version  string `json:"version"`
	Build    string `json:"build"`

	BuildNumber int    `json:"build_number"`
	Channel     string `json:"channel,omitempty"`

	// Ecosystem selects the version-ordering backend for this artifact.
	// See SPEC_FULL.md §B.1.
	Ecosystem Ecosystem `json:"ecosystem,omitempty"`

	Depends       []string `json:"depends"`
	Features      string   `json:"features,omitempty"`
	TrackFeatures string   `json:"track_features,omitempty"`

	// WithFeaturesDepends maps a space-separated feature-set string to
	// an extra list of dependency specs activated when that feature
	// set is a subset of the solve's active features.
	WithFeaturesDepends map[string][]string `json:"with_features_depends,omitempty"`
}

// RawIndex is the on-disk §6 index format: filename -> metadata.
type RawIndex map[string]Artifact

// ErrorKind identifies one of the typed error conditions in spec.md §7.
type ErrorKind string

const (
	ErrMalformedVersion ErrorKind = "malformed_version"
	ErrMalformedSpec    ErrorKind = "malformed_spec"
	ErrBadMetadata      ErrorKind = "bad_metadata"
	ErrNoPackagesFound  ErrorKind = "no_packages_found"
	ErrUnsatisfiable    ErrorKind = "unsatisfiable"
	ErrMaxIterations    ErrorKind = "max_iterations"
)
