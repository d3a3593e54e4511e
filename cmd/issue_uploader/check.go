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

var checkCommand = &cobra.Command{
	Use:   "check",
	Short: "Parse the input file and list the records without uploading",
	Long: `Runs the same extraction as 'upload' and prints every record that would be
created, but never talks to GitLab. Use it to verify the parser flags against
a new input file.

Configuration can be loaded from a JSON file using --config. Command-line
arguments override config file values.`,
	RunE: runCheckCmd,
}

var (
	checkConfigPath       string
	checkFile             string
	checkSeparator        string
	checkNoHeader         bool
	checkTitleKey         string
	checkTitleIndex       int
	checkDescriptionKey   string
	checkDescriptionIndex int
	checkPrependTitle     string
	checkCombine          bool
	checkVerbose          bool
)

func init() {
	// Config file flag (processed first)
	checkCommand.Flags().StringVar(&checkConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	checkCommand.Flags().StringVarP(&checkFile, "file", "f", "", "Path to the .csv or .json input file")
	checkCommand.Flags().StringVarP(&checkSeparator, "separator", "s", "", "Field separator for text input (default \",\")")
	checkCommand.Flags().BoolVar(&checkNoHeader, "no-header", false, "Text input has no header row; select fields by index")
	checkCommand.Flags().StringVar(&checkTitleKey, "title-key", "", "Column or key holding the issue title (default \"title\")")
	checkCommand.Flags().IntVar(&checkTitleIndex, "title-index", 0, "Zero-based title column, overrides --title-key")
	checkCommand.Flags().StringVar(&checkDescriptionKey, "description-key", "", "Column or key holding the issue description")
	checkCommand.Flags().IntVar(&checkDescriptionIndex, "description-index", 0, "Zero-based description column, overrides --description-key")
	checkCommand.Flags().StringVar(&checkPrependTitle, "prepend-title", "", "Static prefix prepended to every issue title")
	checkCommand.Flags().BoolVar(&checkCombine, "combine-remaining", false, "Fold all non-title fields into the description")
	checkCommand.Flags().BoolVarP(&checkVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(checkCommand)
}

func runCheckCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Step 1: Load config file if provided
	var cfg config.Config
	if checkConfigPath != "" {
		if err := schemas.ValidateConfigFile(checkConfigPath); err != nil {
			return fmt.Errorf("config file is not valid: %w", err)
		}
		loadedCfg, err := config.LoadConfig(checkConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loadedCfg
		if checkVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", checkConfigPath)
		}
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("file") {
		cfg.File = checkFile
	}
	if cmd.Flags().Changed("separator") {
		cfg.Delimiter = checkSeparator
	}
	if cmd.Flags().Changed("no-header") {
		cfg.NoHeader = checkNoHeader
	}
	if cmd.Flags().Changed("title-key") {
		cfg.TitleKey = checkTitleKey
	}
	if cmd.Flags().Changed("title-index") {
		v := checkTitleIndex
		cfg.TitleIndex = &v
	}
	if cmd.Flags().Changed("description-key") {
		cfg.DescriptionKey = checkDescriptionKey
	}
	if cmd.Flags().Changed("description-index") {
		v := checkDescriptionIndex
		cfg.DescriptionIndex = &v
	}
	if cmd.Flags().Changed("prepend-title") {
		cfg.TitlePrefix = checkPrependTitle
	}
	if cmd.Flags().Changed("combine-remaining") {
		cfg.Combine = checkCombine
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = checkVerbose
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

	logger, err := logging.New(cfg.Verbose)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	_, err = pipeline.Run(ctx, pipeline.Options{
		File:      cfg.File,
		Parser:    buildParserConfig(cfg),
		CheckOnly: true,
		Verbose:   cfg.Verbose,
		Logger:    logger,
	})
	return err
}
