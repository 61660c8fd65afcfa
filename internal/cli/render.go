package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/twintree/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string // output path; derived from the input when empty
	noCache bool
	pipeline.RenderOptions
}

// renderCommand draws a tree as a node-link diagram.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [tree.json | -]",
		Short: "Render a tree as SVG or DOT",
		Long: `Render a tree as a node-link diagram.

With --highlight, every duplicate group gets its own fill color and the
representative occurrence a thick outline. --detailed also labels each
duplicated node with its group's occurrence count.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: input name with the format extension; - for stdout)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", pipeline.DefaultFormat, "output format: svg, dot")
	cmd.Flags().BoolVar(&opts.Highlight, "highlight", false, "color duplicate subtrees")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "label duplicated nodes with their counts (implies --highlight)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, cmd *cobra.Command, input string, opts renderOpts) error {
	root, err := loadTree(input, cmd.InOrStdin())
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	var (
		data     []byte
		cacheHit bool
	)
	err = spin(ctx, fmt.Sprintf("Rendering %s...", strings.ToUpper(opts.Format)), func() error {
		var err error
		data, cacheHit, err = runner.Render(ctx, root, opts.RenderOptions)
		return err
	})
	if err != nil {
		return err
	}

	path := outputPath(input, opts.output, opts.Format)
	if path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	status := iconFresh
	if cacheHit {
		status = iconCached
	}
	printSuccess("Rendered %s %s", strings.ToUpper(opts.Format), StyleDim.Render("("+status+")"))
	printFile(path)
	return nil
}

// outputPath picks the destination for a rendered diagram. Without an
// explicit output, stdin input goes to stdout and file input to a sibling
// file with the format's extension.
func outputPath(input, output, format string) string {
	if output != "" {
		return output
	}
	if input == "-" {
		return "-"
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + "." + format
}
