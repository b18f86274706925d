package cmd

import (
	"fmt"
	"log"
	"os"

	"moodyo/server"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "moodyo",
	Short: "MoodyO is a mood-based music playlist service.",
	Run: func(cmd *cobra.Command, args []string) {
		log.Println("Starting MoodyO server...")
		// server.Start now handles its own port and logging for startup.
		server.Start()
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
