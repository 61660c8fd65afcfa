package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/twintree/pkg/pipeline"
)

// detectFlags holds the detection flags shared by find and serve. Only
// flags the user set override the configured defaults.
type detectFlags struct {
	scheme     string
	traversal  string
	verify     bool
	workers    int
	splitDepth int
}

func (f *detectFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.scheme, "scheme", "s", pipeline.DefaultScheme, "key scheme: string, hash")
	cmd.Flags().StringVarP(&f.traversal, "traversal", "t", pipeline.DefaultTraversal, "traversal: iterative, recursive, parallel")
	cmd.Flags().BoolVar(&f.verify, "verify", false, "confirm hash matches by structural comparison")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "parallel workers (0 = GOMAXPROCS)")
	cmd.Flags().IntVar(&f.splitDepth, "split-depth", 0, "depth at which parallel traversal splits work (0 = default)")
}

// apply overlays the flags the user changed onto opts.
func (f *detectFlags) apply(cmd *cobra.Command, opts pipeline.Options) pipeline.Options {
	flags := cmd.Flags()
	if flags.Changed("scheme") {
		opts.Scheme = f.scheme
	}
	if flags.Changed("traversal") {
		opts.Traversal = f.traversal
	}
	if flags.Changed("verify") {
		opts.Verify = f.verify
	}
	if flags.Changed("workers") {
		opts.Workers = f.workers
	}
	if flags.Changed("split-depth") {
		opts.SplitDepth = f.splitDepth
	}
	return opts
}
