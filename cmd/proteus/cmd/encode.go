package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zoobzio/proteus"
	"github.com/zoobzio/proteus/protobin"
	"github.com/zoobzio/proteus/scene"
)

func newEncodeCmd(a *app) *cobra.Command {
	var (
		out     string
		format  string
		raw     bool
		sealKey string
	)

	cmd := &cobra.Command{
		Use:   "encode <in>",
		Short: "Encode a text scene into a .protobin file",
		Long: `Encode reads a scene rendered as YAML, JSON, MessagePack, CBOR, XML or
BSON and writes it in the binary dump format. The input format comes from
--format, then the file extension, then the configured default.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := args[0]
			f, err := resolveFormat(format, in, a.cfg.Format)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(in)
			if err != nil {
				return fmt.Errorf("read %s: %w", in, err)
			}

			p, err := proteus.Use[scene.AiScene](codecFor(f))
			if err != nil {
				return err
			}
			s, err := p.Load(cmd.Context(), data)
			if err != nil {
				return fmt.Errorf("parse %s as %s: %w", in, f, err)
			}

			key := keyFile(sealKey, a)
			opts, err := sealOptions(key)
			if err != nil {
				return err
			}
			opts = append(opts, protobin.WithFraming(a.cfg.Framed && !raw))

			if out == "" {
				err = protobin.Write(cmd.Context(), cmd.OutOrStdout(), s, opts...)
			} else {
				err = protobin.WriteFile(cmd.Context(), out, s, opts...)
			}
			if err != nil {
				return err
			}

			a.log.Info("encoded scene",
				zap.String("in", in),
				zap.String("format", f),
				zap.String("out", out),
				zap.Int("cameras", s.NumCameras()),
				zap.Bool("sealed", key != ""),
			)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&format, "format", "", "input format (yaml, json, msgpack, cbor, xml, bson)")
	cmd.Flags().BoolVar(&raw, "raw", false, "omit the file header")
	cmd.Flags().StringVar(&sealKey, "seal-key-file", "", "seal the output with the AES key in this file")
	return cmd
}
