// Command foldertreed is a thin CLI embedding layer over package tree: one
// subcommand per tree operation, plus a bench subcommand that drives the
// synchronizer with a concurrent workload. It owns a single
// process-lifetime Tree and is not itself part of the concurrency
// protocol.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mielnikk/foldertree/internal/ftreelog"
	"github.com/mielnikk/foldertree/tree"
)

var verbose bool

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	t := tree.New()

	root := &cobra.Command{
		Use:   "foldertreed",
		Short: "In-memory concurrent folder tree",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				ftreelog.Logger.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newListCmd(t),
		newCreateCmd(t),
		newRemoveCmd(t),
		newMoveCmd(t),
		newBenchCmd(),
	)
	return root
}

func newListCmd(t *tree.Tree) *cobra.Command {
	return &cobra.Command{
		Use:   "list <path>",
		Short: "List the immediate children of path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			listing, err := t.List(args[0])
			if err != nil {
				return exitErr(err)
			}
			fmt.Println(listing)
			return nil
		},
	}
}

func newCreateCmd(t *tree.Tree) *cobra.Command {
	return &cobra.Command{
		Use:   "create <path>",
		Short: "Create an empty folder at path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return exitErr(t.Create(args[0]))
		},
	}
}

func newRemoveCmd(t *tree.Tree) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <path>",
		Short: "Remove the empty folder at path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return exitErr(t.Remove(args[0]))
		},
	}
}

func newMoveCmd(t *tree.Tree) *cobra.Command {
	return &cobra.Command{
		Use:   "move <source> <target>",
		Short: "Move the subtree at source to target",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return exitErr(t.Move(args[0], args[1]))
		},
	}
}

// exitErr turns a tree error into a cobra error whose message also carries
// its POSIX-style code from tree.Code, printed to stderr by cobra's default
// error handling. The process exit status is 1 for every error.
func exitErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w (code %d)", err, tree.Code(err))
}
