package adapters

import (
	"os"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"pkgresolve/internal/types"
)

// DirectivesFileAdapter reads a YAML pins file of force/block/replace
// overrides, the on-disk analogue of conda's pinned_packages. Grounded
// on the teacher's SpecFileAdapter load-and-validate style.
type DirectivesFileAdapter struct{}

func NewDirectivesFileAdapter() DirectivesFileAdapter {
	return DirectivesFileAdapter{}
}

type directivesDoc struct {
	Force   map[string]string `yaml:"force"`
	Block   []string          `yaml:"block"`
	Replace map[string]string `yaml:"replace"`
}

func (a DirectivesFileAdapter) Load(path string) ([]types.Directive, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("directives file not found").
			WithCause(err)
	}

	var doc directivesDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse directives yaml").
			WithCause(err)
	}

	var directives []types.Directive
	for _, name := range sortedKeys(doc.Force) {
		directives = append(directives, types.Directive{Name: name, Action: types.DirectiveForce, Value: doc.Force[name]})
	}
	for _, name := range append([]string(nil), doc.Block...) {
		directives = append(directives, types.Directive{Name: name, Action: types.DirectiveBlock})
	}
	for _, name := range sortedKeys(doc.Replace) {
		directives = append(directives, types.Directive{Name: name, Action: types.DirectiveReplace, Value: doc.Replace[name]})
	}
	return directives, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
