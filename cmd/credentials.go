package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/shawkym/moragents-tui/pkg/credentials"
)

// flagKeys maps set flag names back to credential field keys.
var flagKeys = map[string]string{}

var credentialsCmd = &cobra.Command{
	Use:   "credentials",
	Short: "Manage X API credentials",
	Long: `Manage the X (Twitter) API credentials used by the tweet agent.

Credentials are stored locally first and then registered with the backend.
If the backend cannot be reached they stay saved locally and can be pushed
later with "moragents credentials sync".`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var credentialsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show stored credentials (masked) and sync status",
	RunE:  runCredentialsShow,
}

var credentialsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store credentials and register them with the backend",
	Long: `Store X API credentials and register them with the backend.
Values not passed as flags are prompted for; press enter to keep the
stored value.`,
	RunE: runCredentialsSet,
}

var credentialsSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Push locally stored credentials to the backend",
	RunE:  runCredentialsSync,
}

func init() {
	rootCmd.AddCommand(credentialsCmd)
	credentialsCmd.AddCommand(credentialsShowCmd)
	credentialsCmd.AddCommand(credentialsSetCmd)
	credentialsCmd.AddCommand(credentialsSyncCmd)

	for _, f := range credentials.Fields {
		name := flagName(f.Key)
		flagKeys[name] = f.Key
		credentialsSetCmd.Flags().String(name, "", f.Label)
	}
}

// flagName turns a camelCase field key into a kebab-case flag.
func flagName(key string) string {
	out := make([]rune, 0, len(key)+4)
	for _, r := range key {
		if r >= 'A' && r <= 'Z' {
			out = append(out, '-', r+('a'-'A'))
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

// changedCredentials returns the credential values passed explicitly on
// the command line, keyed by field key.
func changedCredentials(fs *pflag.FlagSet) map[string]string {
	values := map[string]string{}
	fs.Visit(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			values[key] = f.Value.String()
		}
	})
	return values
}

func credentialLine(f credentials.Field, creds credentials.Credentials) string {
	return fmt.Sprintf("  %-20s %s", f.Label+":", credentials.Display(creds.Get(f.Key)))
}

func runCredentialsShow(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	svc, store, err := openCredentials(cfg, nil, nil)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	creds, err := svc.Load(ctx)
	if err != nil {
		return err
	}
	state, err := svc.Status(ctx)
	if err != nil {
		return err
	}

	fmt.Println("\nX API Credentials")
	fmt.Println("=================")
	for _, f := range credentials.Fields {
		fmt.Println(credentialLine(f, creds))
	}

	status := string(state.Status)
	if status == "" {
		status = "never saved"
	}
	fmt.Printf("\nSync status: %s\n", status)
	if !state.UpdatedAt.IsZero() {
		fmt.Printf("Updated:     %s\n", state.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	if state.LastError != "" {
		fmt.Printf("Last error:  %s\n", state.LastError)
	}
	fmt.Println()
	return nil
}

func runCredentialsSet(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	c := newClient(cfg, nil)
	svc, store, err := openCredentials(cfg, c, nil)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	creds, err := svc.Load(ctx)
	if err != nil {
		return err
	}

	given := changedCredentials(cmd.Flags())
	reader := bufio.NewReader(os.Stdin)
	for _, f := range credentials.Fields {
		if v, ok := given[f.Key]; ok {
			creds.Set(f.Key, v)
			continue
		}
		current := creds.Get(f.Key)
		value := promptString(reader, fmt.Sprintf("%s [%s]", f.Label, credentials.Display(current)), current)
		creds.Set(f.Key, value)
	}

	res := svc.Save(ctx, creds)
	fmt.Println(res.Message())
	if res.Status == credentials.StatusNone {
		return res.Err
	}
	return nil
}

func runCredentialsSync(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	svc, store, err := openCredentials(cfg, newClient(cfg, nil), nil)
	if err != nil {
		return err
	}
	defer store.Close()

	res := svc.Reconcile(context.Background())
	fmt.Println(res.Message())
	if errors.Is(res.Err, credentials.ErrNothingToSync) {
		return nil
	}
	if !res.Synced() {
		return fmt.Errorf("credentials not synced")
	}
	return nil
}
