package cli

import (
	"bytes"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treegen/pkg/cbor"
	treeio "github.com/matzehuels/treegen/pkg/io"
	"github.com/matzehuels/treegen/pkg/tree"
)

// encodeCommand creates the "encode" command, the inverse of "diag --json".
func (c *CLI) encodeCommand() *cobra.Command {
	var (
		output string
		check  bool
	)

	cmd := &cobra.Command{
		Use:   "encode [file]",
		Short: "Encode JSON as canonical CBOR",
		Long: `Read a JSON value and write its canonical CBOR encoding.

Whole numbers become integers and other numbers doubles. With --check the
result must be a well-formed tree of the selected schema, which makes
"diag --json", an editor, and "encode --check" a way to hand-edit trees.

Reads standard input when no file is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			v, err := treeio.ReadJSON(bytes.NewReader(in))
			if err != nil {
				return err
			}
			data, err := cbor.Encode(v)
			if err != nil {
				return err
			}

			if check {
				reg, err := c.registry()
				if err != nil {
					return err
				}
				root, err := tree.Deserialize(reg, data)
				if err != nil {
					return err
				}
				if err := tree.CheckWellFormed(root); err != nil {
					return err
				}
			}
			loggerFromContext(cmd.Context()).Debug("encoded", "bytes", len(data))
			return writeOutput(cmd, output, data)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&check, "check", false, "require a well-formed tree")

	return cmd
}
