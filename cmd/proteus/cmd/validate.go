package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zoobzio/proteus/protobin"
	"github.com/zoobzio/proteus/scene"
)

// errInvalidScene is returned after the problems have been printed.
var errInvalidScene = errors.New("scene failed validation")

func newValidateCmd(a *app) *cobra.Command {
	var sealKey string

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check that every camera of a .protobin scene is usable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := sealOptions(keyFile(sealKey, a))
			if err != nil {
				return err
			}
			s, err := protobin.ReadFile(cmd.Context(), args[0], opts...)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			verr := s.Validate()
			if verr == nil {
				fmt.Fprintf(w, "%s: ok, %d cameras\n", args[0], s.NumCameras())
				return nil
			}

			for _, c := range s.Cameras {
				var ve *scene.ValidationError
				if !errors.As(c.Validate(), &ve) {
					continue
				}
				for _, p := range ve.Problems {
					fmt.Fprintf(w, "%s: camera %q: %s\n", args[0], ve.Camera, p)
				}
			}
			a.log.Warn("scene failed validation", zap.String("file", args[0]), zap.Error(verr))
			return errInvalidScene
		},
	}

	cmd.Flags().StringVar(&sealKey, "seal-key-file", "", "AES key file for sealed input")
	return cmd
}
