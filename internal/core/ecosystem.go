package core

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	pep440 "github.com/aquasecurity/go-pep440-version"
	debversion "github.com/knqyf263/go-deb-version"

	"pkgresolve/internal/types"
)

// ecosystemCache memoizes parsed ecosystem-tagged versions so repeated
// comparisons during a solve don't re-parse the same string. Grounded
// on the teacher's versionCache dispatch-by-type pattern.
type ecosystemCache struct {
	pep440Cache map[string]pep440.Version
	debCache    map[string]debversion.Version
}

func newEcosystemCache() *ecosystemCache {
	return &ecosystemCache{
		pep440Cache: make(map[string]pep440.Version),
		debCache:    make(map[string]debversion.Version),
	}
}

func (c *ecosystemCache) reset() {
	c.pep440Cache = make(map[string]pep440.Version)
	c.debCache = make(map[string]debversion.Version)
}

// compare compares two version strings under the named ecosystem
// backend. Per SPEC_FULL.md §B.1, this is an alternate ordering applied
// only when an Artifact opts in via its Ecosystem field; relational
// MatchSpec atoms evaluated against a deb-tagged artifact use it in
// place of the native VersionOrder.
func (c *ecosystemCache) compare(eco types.Ecosystem, a, b string) (int, error) {
	switch eco {
	case types.EcosystemPip:
		va, err := c.pep440(a)
		if err != nil {
			return 0, err
		}
		vb, err := c.pep440(b)
		if err != nil {
			return 0, err
		}
		return va.Compare(vb), nil
	case types.EcosystemDeb:
		va, err := c.deb(a)
		if err != nil {
			return 0, err
		}
		vb, err := c.deb(b)
		if err != nil {
			return 0, err
		}
		switch {
		case va.Equal(vb):
			return 0, nil
		case va.LessThan(vb):
			return -1, nil
		default:
			return 1, nil
		}
	default:
		return 0, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unknown ecosystem '" + string(eco) + "'")
	}
}

func (c *ecosystemCache) pep440(raw string) (pep440.Version, error) {
	if v, ok := c.pep440Cache[raw]; ok {
		return v, nil
	}
	v, err := pep440.Parse(raw)
	if err != nil {
		return pep440.Version{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("malformed pip version '" + raw + "'").
			WithCause(err)
	}
	c.pep440Cache[raw] = v
	return v, nil
}

func (c *ecosystemCache) deb(raw string) (debversion.Version, error) {
	if v, ok := c.debCache[raw]; ok {
		return v, nil
	}
	v, err := debversion.NewVersion(raw)
	if err != nil {
		return debversion.Version{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("malformed deb version '" + raw + "'").
			WithCause(err)
	}
	c.debCache[raw] = v
	return v, nil
}

// pep440Satisfies reports whether version raw satisfies the pep440
// specifier expression spec, used when an atom's Op is ">="/"=="/etc
// and the owning Artifact is tagged EcosystemPip. Deb artifacts fall
// back to relational comparison via compare, since go-deb-version has
// no specifier-expression parser of its own.
func (c *ecosystemCache) pep440Satisfies(raw string, expr string) (bool, error) {
	spec, err := pep440.NewSpecifiers(expr)
	if err != nil {
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("malformed pip constraint '" + expr + "'").
			WithCause(err)
	}
	v, err := c.pep440(raw)
	if err != nil {
		return false, err
	}
	return spec.Check(v), nil
}

func toPep440Expr(op types.ConstraintOp, version string) string {
	var sym string
	switch op {
	case types.ConstraintOpEq:
		sym = "=="
	case types.ConstraintOpNe:
		sym = "!="
	case types.ConstraintOpGte:
		sym = ">="
	case types.ConstraintOpLte:
		sym = "<="
	case types.ConstraintOpGt:
		sym = ">"
	case types.ConstraintOpLt:
		sym = "<"
	}
	return sym + strings.TrimSpace(version)
}
