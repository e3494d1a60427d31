package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"
)

var (
	migratePath string
	migrateDown bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations up (or one step down with --down)",
	Run: func(cmd *cobra.Command, args []string) {
		m, err := migrate.New("file://"+migratePath, migrateDatabaseURL())
		if err != nil {
			fmt.Printf("Migration setup failed: %v\n", err)
			os.Exit(1)
		}
		defer m.Close()

		if migrateDown {
			err = m.Steps(-1)
		} else {
			err = m.Up()
		}
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("No migrations to apply.")
			return
		}
		if err != nil {
			fmt.Printf("Migration failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Migrations applied.")
	},
}

func migrateDatabaseURL() string {
	if url := os.Getenv("MIGRATE_DATABASE_URL"); url != "" {
		return url
	}
	port := os.Getenv("MYSQL_PORT")
	if port == "" {
		port = "3306"
	}
	return fmt.Sprintf("mysql://%s:%s@tcp(%s:%s)/%s",
		os.Getenv("MYSQL_USER"), os.Getenv("MYSQL_PASS"),
		os.Getenv("MYSQL_HOST"), port, os.Getenv("MYSQL_DB"))
}

func init() {
	migrateCmd.Flags().StringVar(&migratePath, "path", "migrations", "Migrations directory")
	migrateCmd.Flags().BoolVar(&migrateDown, "down", false, "Roll back one migration step")
	rootCmd.AddCommand(migrateCmd)
}
