package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/wildfunctions/newton_formula/pkg/engine"
	"go.uber.org/zap"
)

func newNewtonCmd() *cobra.Command {
	cfg := engine.DefaultConfig()
	var configPath string
	cmd := &cobra.Command{
		Use:   "newton [formula]",
		Short: "scan a grid of start points with Newton's method and print the basins",
		Long: `
Runs Newton's method from every pixel of a Width x Height grid and groups
the pixels by the root they reach. Settings come from --config (YAML),
then from flags; a formula argument overrides both.
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				if err := loadConfigUnderFlags(cmd.Flags(), configPath, &cfg); err != nil {
					return err
				}
			}
			if len(args) == 1 {
				cfg.Formula = args[0]
			}
			cfg.Verbose = cfg.Verbose || verbose

			log, err := newLogger()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			e, err := engine.New(cfg, log)
			if err != nil {
				return err
			}
			report, err := e.Run(cmd.Context())
			if err != nil {
				return err
			}
			log.Debug("writing report", zap.String("format", cfg.Format))
			if cfg.Format == "json" {
				return engine.WriteJSONReport(cmd.OutOrStdout(), report)
			}
			engine.WriteTextReport(cmd.OutOrStdout(), report)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&configPath, "config", "", "YAML config file")
	f.StringVar(&cfg.Preset, "preset", cfg.Preset, "named formula, used when no formula is given")
	f.StringVar(&cfg.Var, "var", cfg.Var, "variable bound per start point")
	f.StringVar(&cfg.CenterRe, "center-re", cfg.CenterRe, "real part of the view centre")
	f.StringVar(&cfg.CenterIm, "center-im", cfg.CenterIm, "imaginary part of the view centre")
	f.StringVar(&cfg.Span, "span", cfg.Span, "view width (default: the preset's)")
	f.IntVar(&cfg.Width, "width", cfg.Width, "grid columns")
	f.IntVar(&cfg.Height, "height", cfg.Height, "grid rows")
	f.IntVar(&cfg.MaxIterations, "max-iterations", cfg.MaxIterations, "Newton steps per start point")
	f.Float64Var(&cfg.Tolerance, "tolerance", cfg.Tolerance, "step size that counts as converged")
	f.Float64Var(&cfg.ClusterTolerance, "cluster-tolerance", cfg.ClusterTolerance, "distance under which roots are merged")
	f.StringVar(&cfg.Backend, "backend", cfg.Backend, "scalar type: double, decimal or big")
	f.IntVar(&cfg.Precision, "precision", cfg.Precision, "significant digits for the big backend")
	f.IntVar(&cfg.Workers, "workers", cfg.Workers, "number of parallel workers")
	f.StringVar(&cfg.Format, "format", cfg.Format, "output format (text, json)")
	return cmd
}

// loadConfigUnderFlags replaces cfg with the file's settings and then
// reapplies every flag set on the command line.
func loadConfigUnderFlags(flags *pflag.FlagSet, path string, cfg *engine.Config) error {
	changed := map[string]string{}
	flags.Visit(func(f *pflag.Flag) {
		changed[f.Name] = f.Value.String()
	})
	loaded, err := engine.LoadConfig(path)
	if err != nil {
		return err
	}
	*cfg = loaded
	for name, v := range changed {
		if name == "config" {
			continue
		}
		if err := flags.Set(name, v); err != nil {
			return err
		}
	}
	return nil
}
