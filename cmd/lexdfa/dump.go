package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) dumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump LEXER",
		Short: "Print the rules and DFA states of a compiled lexer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lx, err := a.readLexer(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, r := range lx.Rules() {
				fmt.Fprintf(out, "rule %d: %s\n", i, r.Text)
			}
			fmt.Fprint(out, lx.DFA().Dump())
			return nil
		},
	}
}
