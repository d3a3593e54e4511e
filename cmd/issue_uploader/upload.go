package main

import (
	"context"
	"fmt"
	"os"

	"github.com/martin/issue-uploader/internal/config"
	"github.com/martin/issue-uploader/internal/logging"
	"github.com/martin/issue-uploader/internal/pipeline"
	"github.com/martin/issue-uploader/internal/schemas"
	"github.com/spf13/cobra"
)

var uploadCommand = &cobra.Command{
	Use:   "upload",
	Short: "Create one GitLab issue per record in the input file",
	Long: `Reads issue records from a .csv or .json file and creates them in the target
project. The project is selected by name or by numeric ID, labels and an
assignee can be applied to every issue, and records the server rejects are
reported without stopping the rest of the upload.

Configuration can be loaded from a JSON file using --config. Command-line
arguments override config file values.`,
	RunE: runUploadCmd,
}

var (
	uploadConfigPath       string
	uploadFile             string
	uploadURL              string
	uploadToken            string
	uploadProjectName      string
	uploadProjectID        int64
	uploadLabels           string
	uploadAssignee         string
	uploadInsecure         bool
	uploadSeparator        string
	uploadNoHeader         bool
	uploadTitleKey         string
	uploadTitleIndex       int
	uploadDescriptionKey   string
	uploadDescriptionIndex int
	uploadPrependTitle     string
	uploadCombine          bool
	uploadVerbose          bool
)

func init() {
	// Config file flag (processed first)
	uploadCommand.Flags().StringVar(&uploadConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	uploadCommand.Flags().StringVarP(&uploadFile, "file", "f", "", "Path to the .csv or .json input file")
	uploadCommand.Flags().StringVarP(&uploadURL, "url", "u", "", "GitLab instance URL (defaults to GITLAB_URL env var)")
	uploadCommand.Flags().StringVarP(&uploadToken, "token", "t", "", "Personal access token (defaults to GITLAB_ACCESS_TOKEN env var, else an interactive prompt)")
	uploadCommand.Flags().StringVarP(&uploadProjectName, "project-name", "p", "", "Target project name (mutually exclusive with --project-id)")
	uploadCommand.Flags().Int64VarP(&uploadProjectID, "project-id", "i", 0, "Target project ID (mutually exclusive with --project-name)")
	uploadCommand.Flags().StringVarP(&uploadLabels, "labels", "l", "", "Comma-separated labels added to every issue")
	uploadCommand.Flags().StringVarP(&uploadAssignee, "assignee", "a", "", "Username every issue is assigned to")
	uploadCommand.Flags().BoolVar(&uploadInsecure, "insecure", false, "Skip TLS certificate verification")

	uploadCommand.Flags().StringVarP(&uploadSeparator, "separator", "s", "", "Field separator for text input (default \",\")")
	uploadCommand.Flags().BoolVar(&uploadNoHeader, "no-header", false, "Text input has no header row; select fields by index")
	uploadCommand.Flags().StringVar(&uploadTitleKey, "title-key", "", "Column or key holding the issue title (default \"title\")")
	uploadCommand.Flags().IntVar(&uploadTitleIndex, "title-index", 0, "Zero-based title column, overrides --title-key")
	uploadCommand.Flags().StringVar(&uploadDescriptionKey, "description-key", "", "Column or key holding the issue description")
	uploadCommand.Flags().IntVar(&uploadDescriptionIndex, "description-index", 0, "Zero-based description column, overrides --description-key")
	uploadCommand.Flags().StringVar(&uploadPrependTitle, "prepend-title", "", "Static prefix prepended to every issue title")
	uploadCommand.Flags().BoolVar(&uploadCombine, "combine-remaining", false, "Fold all non-title fields into the description")

	uploadCommand.Flags().BoolVarP(&uploadVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(uploadCommand)
}

func runUploadCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Step 1: Load config file if provided
	var cfg config.Config
	if uploadConfigPath != "" {
		if err := schemas.ValidateConfigFile(uploadConfigPath); err != nil {
			return fmt.Errorf("config file is not valid: %w", err)
		}
		loadedCfg, err := config.LoadConfig(uploadConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loadedCfg
		if uploadVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", uploadConfigPath)
		}
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("file") {
		cfg.File = uploadFile
	}
	if cmd.Flags().Changed("url") {
		cfg.URL = uploadURL
	}
	if cmd.Flags().Changed("token") {
		cfg.Token = uploadToken
	}
	if cmd.Flags().Changed("project-name") {
		cfg.ProjectName = uploadProjectName
	}
	if cmd.Flags().Changed("project-id") {
		cfg.ProjectID = uploadProjectID
	}
	if cmd.Flags().Changed("labels") {
		cfg.Labels = uploadLabels
	}
	if cmd.Flags().Changed("assignee") {
		cfg.Assignee = uploadAssignee
	}
	if cmd.Flags().Changed("insecure") {
		cfg.NoSSLVerify = uploadInsecure
	}
	if cmd.Flags().Changed("separator") {
		cfg.Delimiter = uploadSeparator
	}
	if cmd.Flags().Changed("no-header") {
		cfg.NoHeader = uploadNoHeader
	}
	if cmd.Flags().Changed("title-key") {
		cfg.TitleKey = uploadTitleKey
	}
	if cmd.Flags().Changed("title-index") {
		v := uploadTitleIndex
		cfg.TitleIndex = &v
	}
	if cmd.Flags().Changed("description-key") {
		cfg.DescriptionKey = uploadDescriptionKey
	}
	if cmd.Flags().Changed("description-index") {
		v := uploadDescriptionIndex
		cfg.DescriptionIndex = &v
	}
	if cmd.Flags().Changed("prepend-title") {
		cfg.TitlePrefix = uploadPrependTitle
	}
	if cmd.Flags().Changed("combine-remaining") {
		cfg.Combine = uploadCombine
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = uploadVerbose
	}

	// Step 3: Apply defaults for unset values
	cfg = cfg.MergeWithDefaults(config.Config{
		TitleKey:  config.DefaultTitleKey,
		Delimiter: ",",
	})

	// Step 4: Validate the merged configuration and required fields
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.File == "" {
		return fmt.Errorf("--file is required (via flag or config)")
	}
	if cfg.ProjectName == "" && cfg.ProjectID == 0 {
		return fmt.Errorf("either --project-name or --project-id must be provided (via flag or config)")
	}

	// Step 5: Resolve the GitLab URL and access token
	if err := resolveCredentials(&cfg); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Verbose)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	report, err := pipeline.Run(ctx, pipeline.Options{
		File:        cfg.File,
		Parser:      buildParserConfig(cfg),
		Client:      newGitLabClient(cfg, logger),
		ProjectName: cfg.ProjectName,
		ProjectID:   cfg.ProjectID,
		Labels:      cfg.Labels,
		Assignee:    cfg.Assignee,
		Verbose:     cfg.Verbose,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	if len(report.Failed) > 0 {
		return fmt.Errorf("%d of %d issues could not be created", len(report.Failed), report.Attempted())
	}
	return nil
}
