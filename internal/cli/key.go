package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/twintree/pkg/dupes"
	"github.com/matzehuels/twintree/pkg/tree"
)

// keyCommand prints the canonical key of a whole tree. Two trees with the
// same key under the string scheme are structurally identical.
func (c *CLI) keyCommand() *cobra.Command {
	var scheme string

	cmd := &cobra.Command{
		Use:   "key [tree.json | -]",
		Short: "Print the canonical key of a tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("scheme") {
				scheme = c.Config.Detect.Scheme
			}
			root, err := loadTree(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			key, err := treeKey(root, scheme)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	}

	cmd.Flags().StringVarP(&scheme, "scheme", "s", dupes.SchemeString, "key scheme: string, hash")
	return cmd
}

// treeKey returns the key of root under scheme. Hash keys are printed as
// 16 hex digits.
func treeKey(root *tree.Node[int], scheme string) (string, error) {
	st := dupes.Strategy{Scheme: scheme}.Normalize()
	if err := st.Validate(); err != nil {
		return "", err
	}
	if st.Scheme == dupes.SchemeHash {
		return fmt.Sprintf("%016x", dupes.KeyOf(root, dupes.Hashes(tree.IntRepr))), nil
	}
	return dupes.KeyOf(root, dupes.Strings(tree.IntRepr)), nil
}
