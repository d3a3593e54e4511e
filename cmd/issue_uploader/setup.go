package main

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/martin/issue-uploader/internal/config"
	"github.com/martin/issue-uploader/internal/extract"
	"github.com/martin/issue-uploader/internal/gitlab"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// buildParserConfig turns the merged CLI configuration into the extractor
// configuration. The delimiter has already been validated as a single
// character.
func buildParserConfig(cfg config.Config) extract.Config {
	var delimiter rune
	if cfg.Delimiter != "" {
		delimiter, _ = utf8.DecodeRuneInString(cfg.Delimiter)
	}

	parser := extract.Config{
		HasHeader:        !cfg.NoHeader,
		Delimiter:        delimiter,
		Title:            extract.SelectorFromOptions(cfg.TitleKey, indexOrUnset(cfg.TitleIndex)),
		CombineRemaining: cfg.Combine,
		TitlePrefix:      cfg.TitlePrefix,
	}
	if cfg.DescriptionKey != "" || cfg.DescriptionIndex != nil {
		selector := extract.SelectorFromOptions(cfg.DescriptionKey, indexOrUnset(cfg.DescriptionIndex))
		parser.Description = &selector
	}
	return parser
}

// indexOrUnset converts an optional index into the form SelectorFromOptions
// expects, where any negative value means "not set".
func indexOrUnset(index *int) int {
	if index == nil {
		return -1
	}
	return *index
}

// resolveCredentials fills the GitLab URL and access token from the
// environment, falling back to the built-in URL default and an interactive
// token prompt. Flag and config file values always win.
func resolveCredentials(cfg *config.Config) error {
	if cfg.URL == "" {
		cfg.URL = os.Getenv("GITLAB_URL")
	}
	if cfg.URL == "" {
		cfg.URL = config.DefaultURL
	}

	if cfg.Token == "" {
		cfg.Token = os.Getenv("GITLAB_ACCESS_TOKEN")
	}
	if cfg.Token == "" {
		token, err := promptToken()
		if err != nil {
			return err
		}
		cfg.Token = token
	}
	return nil
}

// promptToken reads the access token from the terminal without echoing it.
func promptToken() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("no GITLAB_ACCESS_TOKEN is set and stdin is not a terminal")
	}

	fmt.Fprint(os.Stderr, "GitLab access token: ")
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}

	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", fmt.Errorf("the token is empty")
	}
	return token, nil
}

func newGitLabClient(cfg config.Config, logger *zap.Logger) *gitlab.Client {
	opts := gitlab.DefaultOptions()
	opts.InsecureSkipVerify = cfg.NoSSLVerify
	return gitlab.NewClient(cfg.URL, cfg.Token, opts, logger)
}
