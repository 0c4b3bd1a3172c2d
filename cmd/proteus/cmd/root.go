// Package cmd implements the proteus command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zoobzio/proteus/config"
	"github.com/zoobzio/proteus/internal/logging"
)

// app carries state shared by subcommands once the root pre-run has loaded
// configuration.
type app struct {
	cfg *config.Config
	log *zap.Logger
}

// NewRootCmd builds the proteus command tree.
func NewRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop()}
	var cfgPath, logLevel string

	root := &cobra.Command{
		Use:   "proteus",
		Short: "Convert scene files to and from the binary dump format",
		Long: `proteus reads and writes scenes in the ASSIMP.binaryProto-dump. format
and converts them to and from YAML, JSON, MessagePack, CBOR, XML and BSON.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			logger, err := logging.New(cfg.Log)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			a.cfg, a.log = cfg, logger
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.log.Sync()
		},
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default ./proteus.yaml or ~/.proteus/proteus.yaml)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log.level (debug, info, warn, error)")

	root.AddCommand(
		newEncodeCmd(a),
		newDecodeCmd(a),
		newInspectCmd(a),
		newFingerprintCmd(a),
		newValidateCmd(a),
		newConfigCmd(a),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
