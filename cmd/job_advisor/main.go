// Package main provides the entry point for the Job Advisor HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "job_advisor",
	Short: "Job Advisor HTTP API Server",
	Long:  "Job Advisor tracks candidate profiles, jobs, and applications, and drives a conversational profile interview, company research, and application content generation via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
