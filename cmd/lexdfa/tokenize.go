package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) tokenizeCmd() *cobra.Command {
	var (
		lexerPath string
		strict    bool
	)

	cmd := &cobra.Command{
		Use:   "tokenize -l LEXER [FILE]",
		Short: "Tokenize FILE (or stdin) and print one JSON token per line",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lx, err := a.readLexer(lexerPath)
			if err != nil {
				return err
			}

			var input []byte
			if len(args) == 1 {
				input, err = os.ReadFile(args[0])
			} else {
				input, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			invalid := 0
			for _, tok := range lx.Tokenize(string(input)) {
				if !tok.Valid() {
					invalid++
					a.logger.Warn("no rule matches", zap.Int("offset", tok.Offset), zap.String("text", tok.Text))
				}
				jsonBytes, err := json.Marshal(tok)
				if err != nil {
					return fmt.Errorf("JSON encoding error: %w", err)
				}
				fmt.Fprintln(out, string(jsonBytes))
			}
			if strict && invalid > 0 {
				return fmt.Errorf("%d invalid tokens", invalid)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&lexerPath, "lexer", "l", "", "compiled lexer file")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail if any input is not matched by a rule")
	_ = cmd.MarkFlagRequired("lexer")
	return cmd
}
