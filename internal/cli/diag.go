package cli

import (
	"fmt"

	fxcbor "github.com/fxamacker/cbor/v2"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treegen/pkg/cbor"
	"github.com/matzehuels/treegen/pkg/errors"
	treeio "github.com/matzehuels/treegen/pkg/io"
)

// diagCommand creates the "diag" command, which shows raw blobs without a
// schema.
func (c *CLI) diagCommand() *cobra.Command {
	var asJSON, extended bool

	cmd := &cobra.Command{
		Use:   "diag [file]",
		Short: "Show a CBOR blob in diagnostic notation",
		Long: `Decode any CBOR blob, tree or not, and print it.

The default output is RFC 8949 diagnostic notation as understood by the
treegen codec. --json prints the decoded value as JSON that
"treegen encode" turns back into the same bytes. --edn prints the
extended diagnostic notation of an independent general-purpose decoder,
which also shows tags and the encoding widths that the treegen codec
normalizes away.

Reads standard input when no file is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			switch {
			case asJSON:
				return treeio.WriteJSON(out, data)
			case extended:
				s, err := fxcbor.Diagnose(data)
				if err != nil {
					return errors.Wrap(errors.ErrCodeDecode, err, "diagnose")
				}
				_, err = fmt.Fprintln(out, s)
				return err
			default:
				dec := cbor.Decoder{MaxDepth: c.cfg().MaxDepth}
				s, err := dec.Diagnose(data)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, s)
				return err
			}
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	cmd.Flags().BoolVar(&extended, "edn", false, "print extended diagnostic notation")
	cmd.MarkFlagsMutuallyExclusive("json", "edn")

	return cmd
}
