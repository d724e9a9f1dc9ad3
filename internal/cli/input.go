package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treegen/pkg/errors"
	treeio "github.com/matzehuels/treegen/pkg/io"
	"github.com/matzehuels/treegen/pkg/tree"
)

// stdinName is the argument that selects standard input explicitly.
const stdinName = "-"

// inputPath returns the file named by the optional positional argument,
// or "" for standard input.
func inputPath(args []string) string {
	if len(args) == 0 || args[0] == stdinName {
		return ""
	}
	return args[0]
}

// readInput reads the whole input named by args.
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	path := inputPath(args)
	if path == "" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read stdin")
		}
		return data, nil
	}
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "file not found: %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return data, nil
}

// readTree deserializes the tree named by args with the selected schema.
func (c *CLI) readTree(cmd *cobra.Command, args []string) (tree.Node, error) {
	reg, err := c.registry()
	if err != nil {
		return nil, err
	}
	if path := inputPath(args); path != "" {
		return treeio.ImportTree(path, reg)
	}
	return treeio.ReadTree(cmd.InOrStdin(), reg)
}

// writeOutput writes data to path, or to the command's output if path is
// empty.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "write %s", path)
	}
	printFile(cmd.ErrOrStderr(), path)
	return nil
}
