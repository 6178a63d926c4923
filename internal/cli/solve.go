package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pkgresolve/internal/adapters"
	"pkgresolve/internal/app"
	"pkgresolve/internal/core"
	"pkgresolve/internal/types"
)

type solveOptions struct {
	Installed      []string
	Features       []string
	MaxOnly        bool
	TopoSort       bool
	MaxIterations  int
	LockFile       string
	Force          []string
	Block          []string
	Replace        []string
	DirectivesFile string
}

func newSolveCommand() *cobra.Command {
	opts := solveOptions{}
	cmd := &cobra.Command{
		Use:   "solve [specs...]",
		Short: "Resolve a set of package requirements to an installable set",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(cmd.Context(), cmd, args, opts)
		},
	}
	cmd.Flags().StringSliceVar(&opts.Installed, "installed", nil, "Already-installed filenames")
	cmd.Flags().StringSliceVar(&opts.Features, "feature", nil, "Active feature tags")
	cmd.Flags().BoolVar(&opts.MaxOnly, "max-only", false, "Restrict closure expansion to newest-tier candidates")
	cmd.Flags().BoolVar(&opts.TopoSort, "topo-sort", false, "Order the resolved filenames dependees-before-dependents")
	cmd.Flags().IntVar(&opts.MaxIterations, "max-iterations", core.DefaultMaxIterations, "Cap on alternate-optimum enumeration")
	cmd.Flags().StringVar(&opts.LockFile, "lock-file", "pkg.lock", "Lock file name, written under --output")
	cmd.Flags().StringSliceVar(&opts.Force, "force", nil, "Pin a requirement: name=version")
	cmd.Flags().StringSliceVar(&opts.Block, "block", nil, "Drop a requirement by name")
	cmd.Flags().StringSliceVar(&opts.Replace, "replace", nil, "Substitute a requirement: name=newspec")
	cmd.Flags().StringVar(&opts.DirectivesFile, "directives-file", "", "YAML file of force/block/replace pins")
	_ = viper.BindPFlag("installed", cmd.Flags().Lookup("installed"))
	_ = viper.BindPFlag("feature", cmd.Flags().Lookup("feature"))
	_ = viper.BindPFlag("max_only", cmd.Flags().Lookup("max-only"))
	_ = viper.BindPFlag("topo_sort", cmd.Flags().Lookup("topo-sort"))
	_ = viper.BindPFlag("max_iterations", cmd.Flags().Lookup("max-iterations"))
	return cmd
}

func runSolve(ctx context.Context, cmd *cobra.Command, specs []string, opts solveOptions) error {
	service := newAppService(cmd)
	requestID := uuid.New().String()
	log.Debug().Str("request_id", requestID).Strs("specs", specs).Msg("solve requested")

	directives, err := buildDirectives(opts)
	if err != nil {
		return err
	}
	if opts.DirectivesFile != "" {
		fileDirectives, err := adapters.NewDirectivesFileAdapter().Load(opts.DirectivesFile)
		if err != nil {
			return err
		}
		directives = append(directives, fileDirectives...)
	}

	req := app.SolveRequest{
		Specs:         specs,
		Installed:     resolveStrings(cmd, opts.Installed, "installed", "installed"),
		Features:      resolveStrings(cmd, opts.Features, "feature", "feature"),
		MaxOnly:       resolveBool(cmd, opts.MaxOnly, "max_only", "max-only"),
		MinimalHint:   resolveBool(cmd, opts.TopoSort, "topo_sort", "topo-sort"),
		Directives:    directives,
		MaxIterations: resolveInt(cmd, opts.MaxIterations, "max_iterations", "max-iterations"),
		LockFile:      opts.LockFile,
	}

	result, err := service.Solve(ctx, req)
	if err != nil {
		if core.IsUnsatisfiable(err) {
			return reportUnsatisfiable(ctx, service, req, err)
		}
		return err
	}

	for _, fn := range result.Filenames {
		fmt.Println(fn)
	}
	fmt.Printf("cost: %d\n", result.Cost)
	fmt.Printf("wrote %s\n", result.LockPath)
	if result.FastPath {
		fmt.Println("solved via explicit fast path")
	}
	if result.Alternatives > 0 {
		fmt.Printf("%d alternate optimum/optima found\n", result.Alternatives)
	}
	return nil
}

// reportUnsatisfiable re-derives a minimal unsatisfiable subset after a
// failed solve and prints it before returning the original error, so
// the process still exits with the Unsatisfiable exit code.
func reportUnsatisfiable(ctx context.Context, service app.Service, req app.SolveRequest, solveErr error) error {
	mus, diagErr := service.Diagnose(ctx, app.DiagnoseRequest{
		Specs:      req.Specs,
		Installed:  req.Installed,
		Features:   req.Features,
		Directives: req.Directives,
	})
	if diagErr != nil {
		return solveErr
	}
	fmt.Println(errorMessage(solveErr))
	if mus.ClauseLevel {
		for _, line := range mus.Pretty {
			fmt.Println("  " + line)
		}
	} else {
		for _, spec := range mus.Specs {
			fmt.Println("  " + spec.Raw)
		}
	}
	return solveErr
}

func buildDirectives(opts solveOptions) ([]types.Directive, error) {
	var directives []types.Directive
	for _, f := range opts.Force {
		name, value, ok := strings.Cut(f, "=")
		if !ok {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid --force value %q, expected name=version", f))
		}
		directives = append(directives, types.Directive{Name: name, Action: types.DirectiveForce, Value: value})
	}
	for _, b := range opts.Block {
		directives = append(directives, types.Directive{Name: b, Action: types.DirectiveBlock})
	}
	for _, r := range opts.Replace {
		name, value, ok := strings.Cut(r, "=")
		if !ok {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid --replace value %q, expected name=newspec", r))
		}
		directives = append(directives, types.Directive{Name: name, Action: types.DirectiveReplace, Value: value})
	}
	return directives, nil
}
