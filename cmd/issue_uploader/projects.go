package main

import (
	"context"
	"fmt"
	"os"

	"github.com/martin/issue-uploader/internal/config"
	"github.com/martin/issue-uploader/internal/logging"
	"github.com/martin/issue-uploader/internal/observability"
	"github.com/martin/issue-uploader/internal/schemas"
	"github.com/spf13/cobra"
)

var projectsCommand = &cobra.Command{
	Use:   "projects",
	Short: "List the projects visible to the token, with members and labels",
	Long: `Fetches every project the access token can see and prints it together with
its members and labels. Use it to find the project name or ID, assignee
usernames and existing labels before running 'upload'.

Configuration can be loaded from a JSON file using --config. Command-line
arguments override config file values.`,
	RunE: runProjectsCmd,
}

var (
	projectsConfigPath string
	projectsURL        string
	projectsToken      string
	projectsInsecure   bool
	projectsVerbose    bool
)

func init() {
	// Config file flag (processed first)
	projectsCommand.Flags().StringVar(&projectsConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	projectsCommand.Flags().StringVarP(&projectsURL, "url", "u", "", "GitLab instance URL (defaults to GITLAB_URL env var)")
	projectsCommand.Flags().StringVarP(&projectsToken, "token", "t", "", "Personal access token (defaults to GITLAB_ACCESS_TOKEN env var, else an interactive prompt)")
	projectsCommand.Flags().BoolVar(&projectsInsecure, "insecure", false, "Skip TLS certificate verification")
	projectsCommand.Flags().BoolVarP(&projectsVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(projectsCommand)
}

func runProjectsCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Step 1: Load config file if provided
	var cfg config.Config
	if projectsConfigPath != "" {
		if err := schemas.ValidateConfigFile(projectsConfigPath); err != nil {
			return fmt.Errorf("config file is not valid: %w", err)
		}
		loadedCfg, err := config.LoadConfig(projectsConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loadedCfg
		if projectsVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", projectsConfigPath)
		}
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("url") {
		cfg.URL = projectsURL
	}
	if cmd.Flags().Changed("token") {
		cfg.Token = projectsToken
	}
	if cmd.Flags().Changed("insecure") {
		cfg.NoSSLVerify = projectsInsecure
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = projectsVerbose
	}

	// Step 3: Validate and resolve credentials
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := resolveCredentials(&cfg); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Verbose)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	client := newGitLabClient(cfg, logger)
	projects, err := client.ProjectsWithDetails(ctx)
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}

	observability.NewPrinter(os.Stdout).PrintProjects(projects)
	return nil
}
