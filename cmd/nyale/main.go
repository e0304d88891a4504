// SPDX-License-Identifier: MIT

// Command nyale creates, inspects and combines matrices stored in the
// nyale binary format.
//
//	nyale identity --rows 4 --cols 4 --dtype float64 -o eye.nyal
//	nyale inspect --json eye.nyal
//	nyale transpose a.nyal -o at.nyal
//	nyale multiply a.nyal b.nyal -o ab.nyal
//	nyale compress --compression lz4 a.nyal -o a.lz4.nyal
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/nyale/codec"
	"github.com/katalvlaran/nyale/dtype"
	"github.com/katalvlaran/nyale/yale"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configFile  string
		logLevel    string
		compression string
		e           env
	)

	root := &cobra.Command{
		Use:           "nyale",
		Short:         "new Yale sparse matrix tool",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(configFile)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}
			if compression != "" {
				cfg.Compression = compression
			}
			if err = cfg.Validate(); err != nil {
				return err
			}
			if e.log, err = newLogger(cfg.Log); err != nil {
				return err
			}
			e.compression, _ = codec.ParseCompression(cfg.Compression)
			e.opts, e.budget = cfg.StorageOptions()
			e.opts = append(e.opts, yale.WithLogger(e.log))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if e.log == nil {
				return
			}
			if e.budget != nil {
				e.log.Debug("memory budget", zap.Int("used", e.budget.Used()), zap.Int("limit", e.budget.Limit()))
			}
			_ = e.log.Sync()
		},
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&compression, "compression", "", "payload compression (none, lz4, zstd, s2)")

	root.AddCommand(
		identityCmd(&e),
		inspectCmd(&e),
		transposeCmd(&e),
		multiplyCmd(&e),
		compressCmd(&e),
	)
	return root
}

func identityCmd(e *env) *cobra.Command {
	var (
		rows, cols int
		typeName   string
		out        string
	)
	cmd := &cobra.Command{
		Use:   "identity",
		Short: "Write an identity matrix",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := dtype.Parse(typeName)
			if err != nil {
				return err
			}
			k, err := kernelFor(d)
			if err != nil {
				return err
			}
			if cols == 0 {
				cols = rows
			}
			return writeTo(cmd, out, func(w io.Writer) error { return k.identity(e, w, rows, cols) })
		},
	}
	cmd.Flags().IntVar(&rows, "rows", 0, "row count")
	cmd.Flags().IntVar(&cols, "cols", 0, "column count (defaults to rows)")
	cmd.Flags().StringVar(&typeName, "dtype", "float64", "element type")
	cmd.Flags().StringVarP(&out, "output", "o", "-", "output file, - for stdout")
	_ = cmd.MarkFlagRequired("rows")
	return cmd
}

func inspectCmd(e *env) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Print the vectors of a stored matrix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			k, _, err := kernelOf(data)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			return k.inspect(e, cmd.OutOrStdout(), data, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print a JSON snapshot")
	return cmd
}

func transposeCmd(e *env) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "transpose FILE",
		Short: "Write the transpose of a stored matrix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			k, _, err := kernelOf(data)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			return writeTo(cmd, out, func(w io.Writer) error { return k.transpose(e, w, data) })
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "-", "output file, - for stdout")
	return cmd
}

func multiplyCmd(e *env) *cobra.Command {
	var (
		out         string
		elementwise bool
	)
	cmd := &cobra.Command{
		Use:   "multiply LEFT RIGHT",
		Short: "Write the product of two stored matrices",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			left, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			right, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			k, _, err := kernelOf(left)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			return writeTo(cmd, out, func(w io.Writer) error { return k.multiply(e, w, left, right, elementwise) })
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "-", "output file, - for stdout")
	cmd.Flags().BoolVar(&elementwise, "elementwise", false, "element-wise instead of matrix product")
	return cmd
}

func compressCmd(e *env) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "compress FILE",
		Short: "Re-encode a stored matrix with the configured compression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			k, h, err := kernelOf(data)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			e.log.Info("recoding",
				zap.String("file", args[0]),
				zap.Stringer("from", h.Compression),
				zap.Stringer("to", e.compression),
				zap.Uint64("raw_bytes", h.RawLen),
				zap.Uint64("payload_bytes", h.PayloadLen))
			return writeTo(cmd, out, func(w io.Writer) error { return k.recode(e, w, data) })
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "-", "output file, - for stdout")
	return cmd
}

// writeTo runs fn against the named file, or the command's stdout for "-".
// A failed run removes the partial file.
func writeTo(cmd *cobra.Command, path string, fn func(w io.Writer) error) error {
	if path == "-" || path == "" {
		return fn(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = fn(f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}
