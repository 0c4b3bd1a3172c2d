package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zoobzio/proteus/protobin"
)

func newDecodeCmd(a *app) *cobra.Command {
	var (
		out     string
		format  string
		sealKey string
	)

	cmd := &cobra.Command{
		Use:   "decode <in.protobin>",
		Short: "Render a .protobin file as text",
		Long: `Decode reads a file in the binary dump format, in any layout, and renders
the scene. The output format comes from --format, then the extension of
--output, then the configured default.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := args[0]
			f, err := resolveFormat(format, out, a.cfg.Format)
			if err != nil {
				return err
			}
			opts, err := sealOptions(keyFile(sealKey, a))
			if err != nil {
				return err
			}

			s, err := protobin.ReadFile(cmd.Context(), in, opts...)
			if err != nil {
				return err
			}
			data, err := codecFor(f).Marshal(s)
			if err != nil {
				return fmt.Errorf("render as %s: %w", f, err)
			}

			if out == "" {
				_, err = cmd.OutOrStdout().Write(data)
			} else {
				err = os.WriteFile(out, data, 0o644)
			}
			if err != nil {
				return err
			}

			a.log.Info("decoded scene",
				zap.String("in", in),
				zap.String("format", f),
				zap.String("out", out),
				zap.Int("cameras", s.NumCameras()),
			)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&format, "format", "", "output format (yaml, json, msgpack, cbor, xml, bson)")
	cmd.Flags().StringVar(&sealKey, "seal-key-file", "", "AES key file for sealed input")
	return cmd
}
