// Package main provides the entry point for the Kestraform CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/codebypatrickleung/kestraform-cli/internal/config"
	"github.com/codebypatrickleung/kestraform-cli/internal/logger"
	"github.com/codebypatrickleung/kestraform-cli/internal/workflow"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	version = "0.1.3"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "kestraform",
	Short:   "Kestraform - Kestra to Terraform Migration Tool",
	Long:    `Kestraform is a Go-based CLI tool that exports namespaces, flows and files from an existing Kestra instance and generates the Terraform variables and import commands needed to adopt them into managed state.`,
	Version: version,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Export Kestra resources and generate Terraform import artifacts",
	RunE:  run,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./kestraform-config.env)")

	flags := []struct {
		name, shorthand, usage, defaultValue string
	}{
		{"base-url", "", "Base URL of the source Kestra instance (e.g. http://localhost:8080)", "http://localhost:8080"},
		{"tenant", "", "Kestra tenant id", "main"},
		{"username", "", "Basic auth username", ""},
		{"password", "", "Basic auth password", ""},
		{"api-token", "", "API token (preferred on EE / Cloud instances)", ""},
		{"output-dir", "", "Directory for generated artifacts", "./export-output"},
		{"log-file", "", "Log file path (logs to stderr only when empty)", ""},
	}
	for _, f := range flags {
		runCmd.Flags().String(f.name, f.defaultValue, f.usage)
	}

	boolFlags := []struct {
		name, usage string
	}{
		{"insecure-skip-verify", "Skip TLS certificate verification"},
		{"manage-iam", "Mark user/group/role management as in scope for the Terraform configuration"},
		{"skip-files", "Skip namespace file enumeration"},
		{"skip-declarations", "Skip generation of the Terraform declaration files"},
		{"export-source", "Also download flow sources (flows.zip) and namespace file contents"},
		{"debug", "Enable debug logging"},
	}
	for _, f := range boolFlags {
		runCmd.Flags().Bool(f.name, false, f.usage)
	}

	bindings := map[string]string{
		"KESTRA_BASE_URL":      "base-url",
		"KESTRA_TENANT":        "tenant",
		"KESTRA_USERNAME":      "username",
		"KESTRA_PASSWORD":      "password",
		"KESTRA_API_TOKEN":     "api-token",
		"OUTPUT_DIR":           "output-dir",
		"LOG_FILE":             "log-file",
		"INSECURE_SKIP_VERIFY": "insecure-skip-verify",
		"MANAGE_IAM":           "manage-iam",
		"SKIP_FILES":           "skip-files",
		"SKIP_DECLARATIONS":    "skip-declarations",
		"EXPORT_SOURCE":        "export-source",
		"DEBUG":                "debug",
	}
	for env, flag := range bindings {
		if err := viper.BindPFlag(env, runCmd.Flags().Lookup(flag)); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to bind flag %s to env %s: %v\n", flag, env, err)
		}
	}

	rootCmd.AddCommand(runCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("kestraform-config")
		viper.SetConfigType("env")
	}
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	var log *logger.Logger
	if cfg.LogFile != "" {
		log, err = logger.NewWithFile(cfg.Debug, cfg.LogFile)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer log.Close()
	} else {
		log = logger.New(cfg.Debug)
	}

	log.Infof("Kestraform version %s", version)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	ctx := context.Background()
	mgr, err := workflow.NewManager(cfg, log, version)
	if err != nil {
		return fmt.Errorf("failed to create workflow manager: %w", err)
	}

	if err := mgr.Run(ctx); err != nil {
		log.Error(fmt.Sprintf("Workflow failed: %v", err))
		return err
	}

	return nil
}
