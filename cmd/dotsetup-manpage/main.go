package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/dotsetup/cmd/dotsetup"
	"github.com/arthur-debert/dotsetup/internal/version"
)

func main() {
	rootCmd := dotsetup.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "DOTSETUP",
		Section: "1",
		Source:  "dotsetup " + version.Version,
		Manual:  "dotsetup manual",
	}

	if err := doc.GenMan(rootCmd, header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
