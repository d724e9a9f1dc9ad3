package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/treegen/pkg/tree"
)

// dumpCommand creates the "dump" command.
func (c *CLI) dumpCommand() *cobra.Command {
	var opts tree.DumpOptions

	cmd := &cobra.Command{
		Use:   "dump [file]",
		Short: "Print a tree in readable form",
		Long: `Deserialize a blob with the selected schema and print the tree, one
field per line. Link targets are expanded --link-depth links deep.
Missing required fields are shown as !MISSING, so ill-formed trees can
be dumped too.

Reads standard input when no file is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := c.readTree(cmd, args)
			if err != nil {
				return err
			}
			return tree.Dump(cmd.OutOrStdout(), root, opts)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.Annotations, "annotations", "a", nil, "annotation keys to show")
	cmd.Flags().IntVar(&opts.LinkDepth, "link-depth", 1, "how many links deep to expand link targets")

	return cmd
}
