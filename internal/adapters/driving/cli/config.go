package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docagent/internal/adapters/driven/config/file"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read and write settings",
	Long: `Settings and secrets live in ~/.docagent/config.toml and take
precedence over environment variables.

Common keys:
  llm.api_key, llm.model
  search.top_k
  storage.data_dir
  auth.admin_username, auth.admin_password
  backup.endpoint, backup.bucket, backup.access_key, backup.secret_key,
  backup.prefix, backup.region, backup.use_ssl, backup.timeout`,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print a setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List settings with secrets masked",
	Args:  cobra.NoArgs,
	RunE:  runConfigList,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	val, ok := configStore.Get(args[0])
	if !ok {
		return fmt.Errorf("%s is not set", args[0])
	}
	cmd.Println(fmt.Sprint(val))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	if err := configStore.Set(args[0], file.ParseValue(args[1])); err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}
	cmd.Printf("Set %s\n", args[0])
	return nil
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	keys := configStore.Keys()
	if len(keys) == 0 {
		cmd.Printf("No settings in %s\n", configStore.Path())
		return nil
	}

	for _, key := range keys {
		val, _ := configStore.Get(key)
		shown := fmt.Sprint(val)
		if isSecretKey(key) {
			shown = maskSecret(shown)
		}
		cmd.Printf("%s = %s\n", key, shown)
	}
	return nil
}

func isSecretKey(key string) bool {
	key = strings.ToLower(key)
	for _, marker := range []string{"password", "secret", "api_key", "access_key", "token"} {
		if strings.Contains(key, marker) {
			return true
		}
	}
	return false
}
