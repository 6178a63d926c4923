package core

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"pkgresolve/internal/types"
)

// Index is the immutable in-memory view of the artifact set: filename
// to metadata, plus a derived name -> sorted filenames secondary
// index. Populated once at construction, per spec.md §3 "Index".
type Index struct {
	byFilename map[string]types.Artifact
	byName     map[string][]string
}

// NewIndex builds an Index from a raw filename->Artifact mapping,
// validating the filename/name-version-build invariant and the
// required `depends` field per spec.md §6.
func NewIndex(raw types.RawIndex) (*Index, error) {
	idx := &Index{
		byFilename: make(map[string]types.Artifact, len(raw)),
		byName:     make(map[string][]string),
	}
	for filename, artifact := range raw {
		if !strings.HasSuffix(filename, ".tar.bz2") {
			return nil, badMetadata(filename, "filename does not end in .tar.bz2")
		}
		stem := strings.TrimSuffix(filename, ".tar.bz2")
		parts := strings.SplitN(stem, "-", 3)
		if len(parts) != 3 {
			return nil, badMetadata(filename, "filename does not decompose as name-version-build")
		}
		if artifact.Name == "" || artifact.Version == "" || artifact.Build == "" {
			return nil, badMetadata(filename, "name, version, and build are required")
		}
		if artifact.Depends == nil {
			return nil, badMetadata(filename, "depends is required")
		}
		artifact.Filename = filename
		idx.byFilename[filename] = artifact
		idx.byName[artifact.Name] = append(idx.byName[artifact.Name], filename)
	}
	for name := range idx.byName {
		sort.Strings(idx.byName[name])
	}
	return idx, nil
}

// Artifact looks up a single artifact by filename.
func (idx *Index) Artifact(filename string) (types.Artifact, bool) {
	a, ok := idx.byFilename[filename]
	return a, ok
}

// FilenamesForName returns the sorted filenames registered under name.
func (idx *Index) FilenamesForName(name string) []string {
	return idx.byName[name]
}

// Core is the resolver's single long-lived instance: the immutable
// index plus the monotonic memoization caches described in spec.md §5
// (features, track_features, sum_matches, ms_depends). No locking is
// used since no concurrent mutation occurs.
type Core struct {
	index      *Index
	ecosystems *ecosystemCache

	msDependsCache map[string][]types.MatchSpec
	featuresCache  map[string]map[string]struct{}
	trackFeatures  map[string]map[string]struct{}
	sumMatches     map[string]int
}

// NewCore constructs a Core over idx.
func NewCore(idx *Index) *Core {
	return &Core{
		index:          idx,
		ecosystems:     newEcosystemCache(),
		msDependsCache: make(map[string][]types.MatchSpec),
		featuresCache:  make(map[string]map[string]struct{}),
		trackFeatures:  make(map[string]map[string]struct{}),
		sumMatches:     make(map[string]int),
	}
}

// Reset clears every memoization cache. Exposed for test isolation per
// spec.md §5 ("ms_depends cache can be cleared wholesale for testing").
func (c *Core) Reset() {
	c.ecosystems.reset()
	c.msDependsCache = make(map[string][]types.MatchSpec)
	c.featuresCache = make(map[string]map[string]struct{})
	c.trackFeatures = make(map[string]map[string]struct{})
	c.sumMatches = make(map[string]int)
}

// FindMatches returns, in sorted filename order, every artifact in the
// index whose filename the spec matches.
func (c *Core) FindMatches(ctx context.Context, ms types.MatchSpec) ([]string, error) {
	candidates := c.index.FilenamesForName(ms.Name)
	var matches []string
	for _, fn := range candidates {
		a := c.index.byFilename[fn]
		ok, err := c.Match(ctx, ms, a)
		if err != nil {
			return nil, err
		}
		if ok {
			matches = append(matches, fn)
		}
	}
	return matches, nil
}

// MsDepends returns the cached, parsed dependency MatchSpec list for
// the artifact named by filename. Fails with BadMetadata if the
// filename is unknown and with MalformedSpec if a depends entry does
// not parse; a present-but-empty depends list is valid.
func (c *Core) MsDepends(filename string) ([]types.MatchSpec, error) {
	if cached, ok := c.msDependsCache[filename]; ok {
		return cached, nil
	}
	a, ok := c.index.Artifact(filename)
	if !ok {
		return nil, badMetadata(filename, "unknown artifact")
	}
	parsed := make([]types.MatchSpec, 0, len(a.Depends))
	for _, raw := range a.Depends {
		ms, err := ParseMatchSpec(raw)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, ms)
	}
	c.msDependsCache[filename] = parsed
	return parsed, nil
}

// Features returns the set of feature tags the artifact provides.
func (c *Core) Features(filename string) map[string]struct{} {
	if cached, ok := c.featuresCache[filename]; ok {
		return cached
	}
	a := c.index.byFilename[filename]
	set := splitFeatureSet(a.Features)
	c.featuresCache[filename] = set
	return set
}

// TrackFeatures returns the set of feature tags the artifact activates
// for the whole solution when installed.
func (c *Core) TrackFeatures(filename string) map[string]struct{} {
	if cached, ok := c.trackFeatures[filename]; ok {
		return cached
	}
	a := c.index.byFilename[filename]
	set := splitFeatureSet(a.TrackFeatures)
	c.trackFeatures[filename] = set
	return set
}

func splitFeatureSet(raw string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, f := range strings.Fields(raw) {
		set[f] = struct{}{}
	}
	return set
}

// GetPkgs returns matching artifact filenames for ms. With maxOnly
// false, returns every match or fails with NoPackagesFound. With
// maxOnly true, restricts to artifacts tying for the maximum
// (parsed_version, build_number); artifacts differing only in build
// string all pass, per spec.md §4.C.
func (c *Core) GetPkgs(ctx context.Context, ms types.MatchSpec, maxOnly bool) ([]string, error) {
	matches, err := c.FindMatches(ctx, ms)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, noPackagesFound(ms.Raw)
	}
	if !maxOnly {
		return matches, nil
	}
	return c.maxOnlyFilter(ctx, matches)
}

func (c *Core) maxOnlyFilter(ctx context.Context, filenames []string) ([]string, error) {
	type rankedArtifact struct {
		filename string
		version  VersionOrder
		build    int
	}
	ranked := make([]rankedArtifact, 0, len(filenames))
	for _, fn := range filenames {
		a := c.index.byFilename[fn]
		v, err := NewVersionOrder(ctx, a.Version)
		if err != nil {
			return nil, err
		}
		ranked = append(ranked, rankedArtifact{filename: fn, version: v, build: a.BuildNumber})
	}
	best := ranked[0]
	for _, r := range ranked[1:] {
		if r.version.Less(best.version) {
			continue
		}
		if r.version.Equal(best.version) && r.build <= best.build {
			continue
		}
		best = r
	}
	out := make([]string, 0, len(ranked))
	for _, r := range ranked {
		if r.version.Equal(best.version) && r.build == best.build {
			out = append(out, r.filename)
		}
	}
	sort.Strings(out)
	return out, nil
}

// CompareArtifacts implements the artifact ordering of spec.md §3:
// lexicographic on (parsed_version, build_number, build_string),
// within the same name. Does not reproduce conda's build-string-swap
// bug; see DESIGN.md for the resolved Open Question.
func (c *Core) CompareArtifacts(ctx context.Context, a, b types.Artifact) (int, error) {
	if a.Name != b.Name {
		return 0, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("artifacts of different names are incomparable: %s vs %s", a.Name, b.Name))
	}
	va, err := NewVersionOrder(ctx, a.Version)
	if err != nil {
		return 0, err
	}
	vb, err := NewVersionOrder(ctx, b.Version)
	if err != nil {
		return 0, err
	}
	if c := va.Compare(vb); c != 0 {
		return c, nil
	}
	if a.BuildNumber != b.BuildNumber {
		if a.BuildNumber < b.BuildNumber {
			return -1, nil
		}
		return 1, nil
	}
	return strings.Compare(a.Build, b.Build), nil
}

func badMetadata(filename, reason string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg("bad metadata for '" + filename + "': " + reason)
}

func noPackagesFound(specs ...string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg("no packages found for: " + strings.Join(specs, ", "))
}
