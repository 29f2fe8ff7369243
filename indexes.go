package main

import (
	"context"
	"fmt"
	"os"

	"tonotes/config"
	"tonotes/logger"
	"tonotes/repository"
	"tonotes/utils"

	"github.com/spf13/cobra"
)

var indexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Create the notes indexes in MongoDB and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Parse(configPath)
		if err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
		if cmd.Flags().Changed("unique") {
			cfg.NotesUniqueIndex, _ = cmd.Flags().GetBool("unique")
		}
		if err := logger.Init(os.Stderr, cfg.Log.Level, cfg.Log.Pretty); err != nil {
			return err
		}

		ctx := cmd.Context()
		client, err := utils.NewMongoClient(ctx, cfg.Mongo)
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(context.Background()) }()

		coll := client.Database(cfg.Mongo.DatabaseName).Collection(cfg.Mongo.NotesCollection)
		return repository.SetupIndexes(ctx, coll, cfg.NotesUniqueIndex)
	},
}

func init() {
	indexesCmd.Flags().Bool("unique", false, "make the owner/title/text index unique (overrides NOTES_UNIQUE_INDEX)")
	rootCmd.AddCommand(indexesCmd)
}
