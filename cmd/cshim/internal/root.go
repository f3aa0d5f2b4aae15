package internal

import (
	"log"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cshim",
	Short: "cshim builds C/C++ shim libraries for cgo consumers",
	Long: `cshim builds a C/C++ shim project and its bundled dependencies with CMake,
recovers the link arguments from the generated build files, and prints the
linker directives the host cgo build needs.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		log.Fatal(err)
	}
}
