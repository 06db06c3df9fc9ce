package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// Build-time variables
var (
	version = "dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "faqbot",
		Short:         "FAQ chatbot backend",
		Long:          "Answers chat messages from stored question/answer pairs and learns from suggested-question picks.",
		RunE:          runServe,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newSeedCmd(), newExportCmd(), newVersionCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	app, cleanup, err := initializeApp()
	if err != nil {
		return fmt.Errorf("wire application: %w", err)
	}
	defer cleanup()
	return app.Run(cmd.Context())
}

func newSeedCmd() *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the configured sample question/answer pairs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := initializeApp()
			if err != nil {
				return fmt.Errorf("wire application: %w", err)
			}
			defer cleanup()
			report, err := app.Seed(cmd.Context(), reset)
			if err != nil {
				return err
			}
			return printJSON(cmd, report)
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "delete all pairs and associations first")
	return cmd
}

func newExportCmd() *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Upload a JSON snapshot of pairs and associations to object storage",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := initializeApp()
			if err != nil {
				return fmt.Errorf("wire application: %w", err)
			}
			defer cleanup()
			obj, err := app.Export(cmd.Context(), key)
			if err != nil {
				return err
			}
			return printJSON(cmd, obj)
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "object key (default snapshots/faq-<timestamp>.json)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "faqbot %s (%s)\n", version, commit)
		},
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
