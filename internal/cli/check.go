package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treegen/pkg/tree"
)

// checkCommand creates the "check" command.
func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "Check that a blob is a well-formed tree",
		Long: `Deserialize a blob with the selected schema and check that the tree is
well-formed: every required field is set, no node is owned twice, and
every link points into the tree.

Exits non-zero if the blob does not deserialize or the tree is not
well-formed. Reads standard input when no file is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := c.registry()
			if err != nil {
				return err
			}
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			root, err := tree.Deserialize(reg, data)
			if err != nil {
				return err
			}

			nodes := 0
			tree.Walk(root, func(tree.Node, int) bool {
				nodes++
				return true
			})

			out := cmd.OutOrStdout()
			printKeyValue(out, "type", root.Type())
			printKeyValue(out, "nodes", strconv.Itoa(nodes))
			printKeyValue(out, "bytes", strconv.Itoa(len(data)))

			if err := tree.CheckWellFormed(root); err != nil {
				return err
			}
			printSuccess(out, "well-formed")
			return nil
		},
	}
}
