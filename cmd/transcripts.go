package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shawkym/moragents-tui/pkg/conversation"
	"github.com/shawkym/moragents-tui/pkg/log"
)

var transcriptsCmd = &cobra.Command{
	Use:   "transcripts",
	Short: "Manage saved conversations",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var transcriptsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved conversations",
	Long: `List conversations saved by "moragents chat". Resume one with
"moragents chat --resume <path>".`,
	RunE: runTranscriptsList,
}

func init() {
	rootCmd.AddCommand(transcriptsCmd)
	transcriptsCmd.AddCommand(transcriptsListCmd)
}

func runTranscriptsList(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	paths, err := conversation.ListStates(cfg.Storage.TranscriptDir)
	if err != nil {
		return err
	}

	fmt.Printf("\nSaved Transcripts (%s)\n", cfg.Storage.TranscriptDir)
	fmt.Println(strings.Repeat("=", 70))

	if len(paths) == 0 {
		fmt.Println("\nNo transcripts found.")
		fmt.Println()
		return nil
	}

	for _, path := range paths {
		info, err := conversation.GetStateInfo(path)
		if err != nil {
			log.WithError(err).WithField("path", path).Warn("skipping unreadable transcript")
			continue
		}
		fmt.Printf("\n%s\n", filepath.Base(path))
		fmt.Printf("   Saved:    %s\n", info.SavedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("   Messages: %d (%d from you)\n", info.Messages, info.UserMessages)
		if info.SelectedAgent != "" {
			fmt.Printf("   Agent:    %s\n", info.SelectedAgent)
		}
		fmt.Printf("   Chat ID:  %s\n", info.ChatID)
	}
	fmt.Println()
	return nil
}
