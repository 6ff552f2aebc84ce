package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the tradesim CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tradesim version %s\n", version)
		fmt.Println("A simulated securities trading platform")
		fmt.Println("https://github.com/rustyeddy/tradesim")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
