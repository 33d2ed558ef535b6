package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shawkym/moragents-tui/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  `Display the current version of moragents.`,
	Run:   runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) {
	PrintLogo()
	fmt.Println(version.GetVersionString())
}
