package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/twintree/pkg/errors"
	pkgio "github.com/matzehuels/twintree/pkg/io"
	"github.com/matzehuels/twintree/pkg/pipeline"
	"github.com/matzehuels/twintree/pkg/tree"
)

// findOpts holds the output flags for the find command.
type findOpts struct {
	jsonOut     bool
	interactive bool
	noCache     bool
	refresh     bool
}

// findCommand creates the find command, the main entry point.
func (c *CLI) findCommand() *cobra.Command {
	var (
		flags detectFlags
		opts  findOpts
	)

	cmd := &cobra.Command{
		Use:   "find [tree.json | -]",
		Short: "Report the duplicate subtrees of a tree",
		Long: `Report every subtree that occurs at least twice, once per group.

The input is a level-order list such as [2,15,15] or nested JSON objects
with value, left and right fields. Use "-" to read standard input.

Reports are cached by tree fingerprint and scheme, so repeated runs on the
same tree are instant. Use --refresh to recompute.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			po := flags.apply(cmd, c.detectDefaults())
			po.Refresh = opts.refresh
			return c.runFind(cmd.Context(), cmd.OutOrStdout(), cmd.InOrStdin(), args[0], po, opts)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print the summary as JSON")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "browse the groups interactively")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even if a cached report exists")

	return cmd
}

// runFind loads the tree, analyzes it and prints the result.
func (c *CLI) runFind(ctx context.Context, out io.Writer, stdin io.Reader, input string, po pipeline.Options, opts findOpts) error {
	root, err := loadTree(input, stdin)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	var res *pipeline.Result
	analyze := func() error {
		var err error
		res, err = runner.Analyze(ctx, root, po)
		return err
	}
	if opts.jsonOut || opts.interactive {
		err = analyze()
	} else {
		err = spin(ctx, "Detecting duplicate subtrees...", analyze)
	}
	if err != nil {
		return err
	}
	c.Logger.Debug("analysis finished", "groups", len(res.Summary.Groups), "cache_hit", res.CacheHit)

	switch {
	case opts.jsonOut:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Summary)
	case opts.interactive:
		return browseGroups(ctx, res.Summary)
	}

	prog.done(fmt.Sprintf("Found %d duplicate subtrees", len(res.Summary.Groups)))
	fmt.Fprintln(out, StyleTitle.Render(input))
	printStats(res.Summary.Nodes, res.Summary.Height, len(res.Summary.Groups), res.CacheHit)
	if len(res.Summary.Groups) == 0 {
		printSuccess("No duplicate subtrees")
		return nil
	}
	writeGroupTable(out, res.Summary.Groups)
	if input != "-" {
		printNextStep("Highlight them", fmt.Sprintf("%s render %s --highlight", appName, input))
	}
	return nil
}

// browseGroups runs the interactive group browser.
func browseGroups(ctx context.Context, s *pipeline.Summary) error {
	if len(s.Groups) == 0 {
		printSuccess("No duplicate subtrees")
		return nil
	}
	p := tea.NewProgram(newGroupBrowser(s), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// loadTree reads a tree from path, or from stdin when path is "-".
func loadTree(path string, stdin io.Reader) (*tree.Node[int], error) {
	if path == "-" {
		if stdin == nil {
			stdin = os.Stdin
		}
		return pkgio.Read(stdin)
	}
	if err := errs.ValidatePath(path); err != nil {
		return nil, err
	}
	return pkgio.ImportFile(path)
}
