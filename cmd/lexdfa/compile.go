package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/coregx/lexdfa"
)

func (a *app) compileCmd() *cobra.Command {
	var (
		output    string
		maxStates int
	)

	cmd := &cobra.Command{
		Use:   "compile DEFINITION.yaml",
		Short: "Compile a YAML rule set into a lexer file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := lexdfa.ReadDefinitionFile(args[0])
			if err != nil {
				return err
			}

			opts := []lexdfa.Option{lexdfa.WithLogger(a.logger)}
			if maxStates > 0 {
				opts = append(opts, lexdfa.WithMaxStates(maxStates))
			}
			lx, err := lexdfa.Compile(*def, opts...)
			if err != nil {
				return err
			}

			if output == "" {
				output = strings.TrimSuffix(args[0], ".yaml") + ".lxdf"
			}
			if err := writeLexer(lx, output); err != nil {
				return err
			}
			a.logger.Info("wrote lexer", zap.String("path", output), zap.Int("states", lx.DFA().Len()))
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rules, %d states\n", output, len(lx.Rules()), lx.DFA().Len())
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: DEFINITION with a .lxdf suffix)")
	cmd.Flags().IntVar(&maxStates, "max-states", 0, "maximum number of DFA states")
	return cmd
}

func writeLexer(lx *lexdfa.Lexer, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := lx.Save(w); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
