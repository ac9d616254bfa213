// Package cli implements the newton_formula command line.
package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var verbose bool

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "newton_formula",
		Short: "compile complex formulas, differentiate them and scan Newton basins",
		Long: `
Formulas are infix text over complex numbers: digits, '.', identifiers,
+ - * / ^ and parentheses. The identifier i is the imaginary unit and
adjacent operands multiply, so 2z(z+1) reads as 2*z*(z+1).
`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
	root.AddCommand(
		newTokensCmd(),
		newParseCmd(),
		newDiffCmd(),
		newEvalCmd(),
		newNewtonCmd(),
		newPresetsCmd(),
	)
	return root
}

// Execute runs the command line.
func Execute() error {
	return NewRootCmd().Execute()
}

// newLogger returns a console logger on stderr, at debug level when
// verbose and warn level otherwise.
func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}
