package main

import (
	"os"

	"github.com/arthur-debert/alps/cmd/alps"
	"github.com/arthur-debert/alps/pkg/errors"
)

func main() {
	rootCmd := alps.NewRootCmd()
	err := rootCmd.Execute()
	if err != nil {
		noColor, _ := rootCmd.PersistentFlags().GetBool("no-color")
		alps.PrintError(os.Stderr, err, noColor)
	}
	os.Exit(errors.ExitCode(err))
}
