package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ajxudir/turboncu/pkg/config"
	"github.com/ajxudir/turboncu/pkg/registry"
)

// newCacheCmd builds "cache" and its "clear" subcommand.
func newCacheCmd() *cobra.Command {
	var cacheFile, configFile string

	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the registry metadata cache",
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the registry metadata cache",
		Long: `Delete the registry metadata cache. The file is taken from --cacheFile,
then from the config file, then ~/` + registry.DefaultCacheFileName + `.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			explicit := &config.Overrides{}
			if cmd.Flags().Changed("cacheFile") {
				explicit.CacheFile = config.Ptr(cacheFile)
			}
			cwd, err := getwdFunc()
			if err != nil {
				return fmt.Errorf("get working directory: %w", err)
			}
			merged, err := loadOptions(configFile, cwd, explicit)
			if err != nil {
				return err
			}

			path := merged.Options.CacheFile
			if path == "" {
				path = registry.DefaultCacheFile()
			}
			if err := newCheckerFunc().ClearCache(path); err != nil {
				return fmt.Errorf("clear cache %s: %w", path, err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Cleared cache %s\n", path)
			return nil
		},
	}
	clearCmd.Flags().StringVar(&cacheFile, "cacheFile", "", "Cache file to delete")
	clearCmd.Flags().StringVar(&configFile, "configFile", "", "Config file path")

	cacheCmd.AddCommand(clearCmd)
	return cacheCmd
}
