// Package config handles configuration loading from files, environment variables, and flags.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	// DefaultTenant is the tenant used when none is configured.
	DefaultTenant = "main"
	// DefaultOutputDir is where artifacts are written when no directory is configured.
	DefaultOutputDir = "./export-output"

	// TFVarsFileName is the generated Terraform variables file.
	TFVarsFileName = "kestra.tfvars"
	// ImportScriptFileName is the generated script of terraform import commands.
	ImportScriptFileName = "import.sh"
	// FlowSourceArchiveName is the flow source archive written by --export-source.
	FlowSourceArchiveName = "flows.zip"
	// NamespaceFilesDirName is the directory holding downloaded namespace file contents.
	NamespaceFilesDirName = "namespace_files"
)

// Config holds all configuration for the Kestraform CLI.
type Config struct {
	BaseURL            string
	Tenant             string
	Username           string
	Password           string
	APIToken           string
	InsecureSkipVerify bool
	OutputDir          string
	LogFile            string
	ManageIAM          bool
	SkipFiles          bool
	SkipDeclarations   bool
	ExportSource       bool
	Debug              bool
}

// Load initializes configuration from file, environment variables, and flags.
func Load(configFile string) (*Config, error) {
	viper.SetDefault("kestra_base_url", "http://localhost:8080")
	viper.SetDefault("kestra_tenant", DefaultTenant)
	viper.SetDefault("output_dir", DefaultOutputDir)

	viper.AutomaticEnv()

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			viper.SetConfigFile(configFile)
			if err := viper.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	tenant := viper.GetString("kestra_tenant")
	if tenant == "" {
		tenant = DefaultTenant
	}

	outputDir := viper.GetString("output_dir")
	if outputDir == "" {
		outputDir = DefaultOutputDir
	}

	cfg := &Config{
		BaseURL:            strings.TrimSuffix(viper.GetString("kestra_base_url"), "/"),
		Tenant:             tenant,
		Username:           viper.GetString("kestra_username"),
		Password:           viper.GetString("kestra_password"),
		APIToken:           viper.GetString("kestra_api_token"),
		InsecureSkipVerify: viper.GetBool("insecure_skip_verify"),
		OutputDir:          outputDir,
		LogFile:            viper.GetString("log_file"),
		ManageIAM:          viper.GetBool("manage_iam"),
		SkipFiles:          viper.GetBool("skip_files"),
		SkipDeclarations:   viper.GetBool("skip_declarations"),
		ExportSource:       viper.GetBool("export_source"),
		Debug:              viper.GetBool("debug"),
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("kestra_base_url is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("kestra_base_url is not a valid URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("kestra_base_url must be an absolute http(s) URL, got '%s'", c.BaseURL)
	}
	if c.APIToken == "" && (c.Username == "" || c.Password == "") {
		return fmt.Errorf("either kestra_api_token or both kestra_username and kestra_password are required")
	}
	if c.Tenant == "" {
		return fmt.Errorf("kestra_tenant must not be empty")
	}
	return nil
}

// LoadConfig loads configuration using the global Viper instance.
func LoadConfig() (*Config, error) {
	return Load("")
}
