package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zoobzio/proteus"
	"github.com/zoobzio/proteus/protobin"
)

func newFingerprintCmd(a *app) *cobra.Command {
	var (
		sealKey string
		algo    string
	)

	cmd := &cobra.Command{
		Use:   "fingerprint <file>",
		Short: "Print a content hash of the scene in a .protobin file",
		Long: `Fingerprint hashes the canonical encoding of the scene, so files that
differ only in layout or sealing share a fingerprint.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := sealOptions(keyFile(sealKey, a))
			if err != nil {
				return err
			}
			s, err := protobin.ReadFile(cmd.Context(), args[0], opts...)
			if err != nil {
				return err
			}

			sum, err := proteus.FingerprintWith(proteus.HashAlgo(algo), s)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", sum, args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&sealKey, "seal-key-file", "", "AES key file for sealed input")
	cmd.Flags().StringVar(&algo, "hash", "blake2b", "hash algorithm (blake2b, sha256, sha512)")
	return cmd
}
