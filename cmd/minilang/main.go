// Command minilang is the thin CLI driver named as external to the core
// pipeline in the specification (§6): it reads source from a path or
// stdin, drives tokeniser → parser → IR generator, and either interprets
// a named entry function or serialises a Wasm module description to
// stdout or a file.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/minilang/minilang/api"
	"github.com/minilang/minilang/internal/wasmbin"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	log := logrus.New()

	var verbose bool
	root := &cobra.Command{
		Use:   "minilang",
		Short: "tokenise, parse, lower and run or compile minilang source",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newRunCmd(log), newBuildSkeletonCmd(log), newBuildFuncCmd(log))
	return root
}

func readSource(stdin io.Reader, path string) (string, error) {
	r := stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func newRunCmd(log *logrus.Logger) *cobra.Command {
	var path, entry string
	var args []int32

	cmd := &cobra.Command{
		Use:   "run",
		Short: "interpret a named entry function",
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, err := readSource(cmd.InOrStdin(), path)
			if err != nil {
				return err
			}
			log.WithField("entry", entry).Debug("running")
			result, err := api.Run(src, entry, args, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "in", "", "source path, or - / unset for stdin")
	cmd.Flags().StringVar(&entry, "entry", "main", "entry function name")
	cmd.Flags().Int32SliceVar(&args, "args", nil, "integer arguments to the entry function")
	return cmd
}

func newBuildSkeletonCmd(log *logrus.Logger) *cobra.Command {
	var path, out string

	cmd := &cobra.Command{
		Use:   "build-skeleton",
		Short: "emit the skeleton module (one trampoline per function)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, err := readSource(cmd.InOrStdin(), path)
			if err != nil {
				return err
			}
			mod, err := api.BuildSkeleton(src)
			if err != nil {
				return err
			}
			log.WithField("funcs", len(mod.Funcs)).Debug("built skeleton module")
			return writeBytes(cmd.OutOrStdout(), out, wasmbin.Encode(mod))
		},
	}
	cmd.Flags().StringVar(&path, "in", "", "source path, or - / unset for stdin")
	cmd.Flags().StringVar(&out, "out", "-", "output path, or - for stdout")
	return cmd
}

func newBuildFuncCmd(log *logrus.Logger) *cobra.Command {
	var path, out string
	var funcIdx int

	cmd := &cobra.Command{
		Use:   "build-func",
		Short: "emit the per-function module for one function index",
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, err := readSource(cmd.InOrStdin(), path)
			if err != nil {
				return err
			}
			mod, err := api.BuildFunc(src, funcIdx)
			if err != nil {
				return err
			}
			log.WithField("func_idx", funcIdx).Debug("built per-function module")
			return writeBytes(cmd.OutOrStdout(), out, wasmbin.Encode(mod))
		},
	}
	cmd.Flags().StringVar(&path, "in", "", "source path, or - / unset for stdin")
	cmd.Flags().StringVar(&out, "out", "-", "output path, or - for stdout")
	cmd.Flags().IntVar(&funcIdx, "func-index", 0, "function index to compile")
	return cmd
}

func writeBytes(stdout io.Writer, path string, b []byte) error {
	if path == "" || path == "-" {
		_, err := stdout.Write(b)
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
