package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/treegen/pkg/render/dot"
)

// dotCommand creates the "dot" command.
func (c *CLI) dotCommand() *cobra.Command {
	var (
		opts   dot.Options
		svg    bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "dot [file]",
		Short: "Draw a tree as a Graphviz graph",
		Long: `Deserialize a blob with the selected schema and write it as a Graphviz
DOT graph. Owning edges are solid and labelled with their field name,
links are dashed. With --svg the graph is laid out and rendered to SVG.

Reads standard input when no file is given.`,
		Example: `  treegen dot prog.cbor | dot -Tpng > prog.png
  treegen dot --svg --detailed -o prog.svg prog.cbor`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := c.readTree(cmd, args)
			if err != nil {
				return err
			}

			prog := newProgress(loggerFromContext(cmd.Context()))
			src, err := dot.ToDOT(root, opts)
			if err != nil {
				return err
			}
			data := []byte(src)
			if svg {
				if data, err = dot.RenderSVG(src); err != nil {
					return err
				}
				prog.done("Rendered SVG", "bytes", len(data))
			}
			return writeOutput(cmd, output, data)
		},
	}

	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "show primitive fields in node labels")
	cmd.Flags().StringSliceVarP(&opts.Annotations, "annotations", "a", nil, "annotation keys to show in node labels")
	cmd.Flags().BoolVar(&svg, "svg", false, "render to SVG")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}
