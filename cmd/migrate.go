package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/keviiweb/VBS-sub000/internal/infra/storage/migrations"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply embedded SQL migrations to Postgres",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			storage, err := openPostgresStorage(ctx)
			if err != nil {
				return err
			}
			defer storage.Close()

			runner := migrations.NewRunner(storage.DB, storage.TxManager, app.log)
			applied, err := runner.Run(ctx)
			if err != nil {
				return err
			}

			if len(applied) == 0 {
				fmt.Println("Schema is up to date")
				return nil
			}

			fmt.Printf("Applied %d migration(s):\n", len(applied))
			for _, name := range applied {
				fmt.Printf("  - %s\n", name)
			}
			return nil
		},
	}
}
