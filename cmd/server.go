package cmd

import (
	"musewave/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the MuseWave API server",
	Long:  `Start the MuseWave HTTP server, serving the catalog, engagement and stats APIs.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
