package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/wildfunctions/newton_formula/pkg/bigdec"
	"github.com/wildfunctions/newton_formula/pkg/cplx"
	"github.com/wildfunctions/newton_formula/pkg/engine"
	"github.com/wildfunctions/newton_formula/pkg/expr"
)

func newTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <formula>",
		Short: "print the tokens of a formula, one per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens, err := expr.Tokenize(args[0])
			if err != nil {
				return err
			}
			for _, t := range tokens {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}
}

func newParseCmd() *cobra.Command {
	var latex bool
	cmd := &cobra.Command{
		Use:   "parse <formula>",
		Short: "print the fully parenthesized tree of a formula",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := expr.ParseString(args[0])
			if err != nil {
				return err
			}
			printNode(cmd, n, latex)
			fmt.Fprintf(cmd.OutOrStdout(), "nodes: %d, depth: %d, variables: %s\n",
				n.NodeCount(), n.Depth(), strings.Join(expr.FreeVars(n), " "))
			return nil
		},
	}
	cmd.Flags().BoolVar(&latex, "latex", false, "print LaTeX instead of plain text")
	return cmd
}

func newDiffCmd() *cobra.Command {
	var latex bool
	var wrt string
	cmd := &cobra.Command{
		Use:   "diff <formula>",
		Short: "print the derivative of a formula",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := expr.ParseString(args[0])
			if err != nil {
				return err
			}
			d, err := expr.Differentiate(n, wrt)
			if err != nil {
				return err
			}
			printNode(cmd, d, latex)
			return nil
		},
	}
	cmd.Flags().BoolVar(&latex, "latex", false, "print LaTeX instead of plain text")
	cmd.Flags().StringVar(&wrt, "var", "z", "variable to differentiate by")
	return cmd
}

func printNode(cmd *cobra.Command, n expr.Node, latex bool) {
	if latex {
		fmt.Fprintln(cmd.OutOrStdout(), n.LaTeX())
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), n.String())
}

func newEvalCmd() *cobra.Command {
	var (
		sets      []string
		backend   string
		precision int
		wrt       string
	)
	cmd := &cobra.Command{
		Use:   "eval <formula>",
		Short: "evaluate a formula at complex values",
		Example: `  newton_formula eval 'z^2-1' --set z=1+2i
  newton_formula eval 'z^3' --derivative z --set z=2 --backend big`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := expr.ParseString(args[0])
			if err != nil {
				return err
			}
			if wrt != "" {
				if n, err = expr.Differentiate(n, wrt); err != nil {
					return err
				}
			}
			bindings, err := parseBindings(sets)
			if err != nil {
				return err
			}
			var out string
			switch backend {
			case engine.BackendDouble:
				out, err = evalWith[cplx.Double](n, bindings)
			case engine.BackendDecimal:
				out, err = evalWith[cplx.Decimal](n, bindings)
			case engine.BackendBig:
				bigdec.SetPrecision(precision)
				out, err = evalWith[cplx.Big](n, bindings)
			default:
				err = errors.Newf("unknown backend %q (available: double, decimal, big)", backend)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "bind a variable, name=value (repeatable)")
	cmd.Flags().StringVar(&backend, "backend", engine.BackendDouble, "scalar type: double, decimal or big")
	cmd.Flags().IntVar(&precision, "precision", bigdec.DefaultPrecision, "significant digits for the big backend")
	cmd.Flags().StringVar(&wrt, "derivative", "", "evaluate the derivative by this variable instead")
	return cmd
}

func parseBindings(sets []string) (map[string]cplx.Big, error) {
	out := make(map[string]cplx.Big, len(sets))
	for _, s := range sets {
		name, val, ok := strings.Cut(s, "=")
		if !ok || name == "" {
			return nil, errors.Newf("bad binding %q, want name=value", s)
		}
		v, err := cplx.ParseBig(val)
		if err != nil {
			return nil, err
		}
		out[strings.ToLower(strings.TrimSpace(name))] = v
	}
	return out, nil
}

func evalWith[T cplx.Value[T]](n expr.Node, raw map[string]cplx.Big) (string, error) {
	var zero T
	bindings := make(map[string]T, len(raw))
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		v, err := zero.FromBig(raw[name])
		if err != nil {
			return "", errors.Wrapf(err, "binding %s", name)
		}
		bindings[name] = v
	}
	v, err := expr.Evaluate(n, bindings)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}
