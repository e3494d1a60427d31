package cmd

import (
	"fmt"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wholesale",
	Short: "Wholesale inventory and order management CLI",
	Run: func(cmd *cobra.Command, args []string) {
		figure.NewFigure("wholesale.GO", "", true).Print()
		fmt.Println()
		_ = cmd.Help()
	},
}

// Execute runs the CLI. Custom commands registered via Register are
// attached before dispatch.
func Execute() {
	Apply()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
