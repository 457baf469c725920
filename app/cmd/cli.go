package cmd

import (
	"context"
	"log"
	"os"

	"github.com/shopshap/shopshap/app/configs"
	"github.com/shopshap/shopshap/app/db/seeders"
	"github.com/shopshap/shopshap/app/models/migrations"
	"github.com/shopshap/shopshap/app/services"
	"github.com/urfave/cli/v3"
)

func RunCli() {
	cmd := &cli.Command{
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "Run database migration",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection()
					if err != nil {
						return err
					}
					if err := migrations.AutoMigrate(db); err != nil {
						return err
					}
					log.Println("✅ Migration complete")
					return nil
				},
			},
			{
				Name:  "generate-keys",
				Usage: "Generate new session authentication and encryption keys for .env",
				Action: func(ctx context.Context, c *cli.Command) error {

					if err := configs.GenerateAndPrintSessionKeys(); err != nil {
						return err
					}
					log.Println("✅ Key generation complete. Please copy the keys to your .env file.")
					return nil
				},
			},
			{
				Name:  "init-storage",
				Usage: "Create the image bucket and apply its public-read policy",
				Action: func(ctx context.Context, c *cli.Command) error {
					storage, err := services.NewS3StorageService(configs.LoadENV)
					if err != nil {
						return err
					}
					if err := storage.EnsureBucket(ctx); err != nil {
						return err
					}
					log.Println("✅ Storage bucket ready")
					return nil
				},
			},
			{
				Name:  "seed",
				Usage: "Seed a demo seller with a sample catalogue",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection()
					if err != nil {
						return err
					}
					if err := seeders.DBSeed(db); err != nil {
						return err
					}
					log.Println("✅ Database seeded")
					return nil
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
