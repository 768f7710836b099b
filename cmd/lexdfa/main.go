// Command lexdfa compiles lexical rule sets and runs the compiled lexers.
//
//	lexdfa compile rules.yaml -o rules.lxdf
//	lexdfa tokenize -l rules.lxdf input.txt
//	lexdfa dump rules.lxdf
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
