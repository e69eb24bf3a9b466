package main

import (
	"fmt"

	"Buckling/internal/version"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of buckle",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("buckle v%s (%s)\n", version.Version, version.GitCommit)
		fmt.Println("Euler buckling load calculator, fixed-free columns")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
