// Package main provides the entry point for the GitLab bulk issue uploader.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "issue_uploader",
	Short: "Bulk-create GitLab issues from a CSV or JSON file",
	Long:  "issue_uploader reads issue records from a delimited text or JSON file and creates one GitLab issue per record, with optional labels and an assignee.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
