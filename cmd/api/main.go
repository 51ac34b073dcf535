package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/scholarsync/core/cmd/api/commands"
)

// @title ScholarSync API
// @version 1.0
// @description Professors and their papers, persisted to a single JSON data file

// @BasePath /api

func main() {
	rootCmd := &cobra.Command{
		Use:   "scholarsync",
		Short: "ScholarSync API Server",
		Long:  `ScholarSync keeps a collection of professors and their papers in memory, serves it over HTTP and writes it back to a JSON data file after every change.`,
	}

	rootCmd.PersistentFlags().String("config", "", "Path to a config file (yaml, json, toml)")

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewDataCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
