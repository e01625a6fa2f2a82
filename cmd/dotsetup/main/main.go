package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/dotsetup/cmd/dotsetup"
	"github.com/arthur-debert/dotsetup/pkg/style"
)

func main() {
	rootCmd := dotsetup.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, style.NewRenderer(os.Stderr).RenderError(err))
		os.Exit(1)
	}
}
