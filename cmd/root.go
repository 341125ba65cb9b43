package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/codeWhizperer/TBA/logx"
)

var rootCmd = &cobra.Command{
	Use:   "tba",
	Short: "Token-bound account node CLI",
	Long:  "Command line interface for running and managing a token-bound account node.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logx.Error("CMD", "Command execution failed:", err)
		os.Exit(1)
	}
}
