package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gramarogya/nondvahi/internal/backup"
	"github.com/gramarogya/nondvahi/internal/database"
	"github.com/gramarogya/nondvahi/internal/store"
)

const cliUser = "cli"

func newBackupCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Encrypted database backups in S3-compatible storage",
	}
	cmd.AddCommand(newBackupRunCmd(a))
	cmd.AddCommand(newBackupListCmd(a))
	cmd.AddCommand(newBackupRestoreCmd(a))
	cmd.AddCommand(newBackupCleanupCmd(a))
	return cmd
}

func (a *app) backupManager(db *database.DB) *backup.Manager {
	return backup.NewManager(a.cfg.Backup, db, store.NewBackupStore(db), a.logger.With("component", "backup"))
}

func newBackupRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Take a backup now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := a.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			b, err := a.backupManager(db).RunNow(cmd.Context(), cliUser)
			if err != nil {
				return err
			}
			cmd.Printf("Backup %d uploaded: %s (%d bytes)\n", b.ID, b.S3Key, b.SizeBytes)
			return nil
		},
	}
}

func newBackupListCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent backups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := a.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			list, err := a.backupManager(db).List(limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tFILE\tSTATUS\tSIZE\tCREATED")
			for _, b := range list {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", b.ID, b.Filename, b.Status, b.SizeBytes, b.CreatedAt.Format("2006-01-02 15:04"))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Number of backups to show")
	return cmd
}

func newBackupRestoreCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <id> <output-file>",
		Short: "Download, decrypt and verify a backup into a new database file",
		Long: "Restore writes the decrypted database to output-file after an integrity check. " +
			"It never touches the running database; stop the server and move the file into place to switch over.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid backup id %q", args[0])
			}

			db, err := a.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			if err := a.backupManager(db).RestoreToFile(cmd.Context(), id, args[1]); err != nil {
				return err
			}
			cmd.Printf("Backup %d restored to %s\n", id, args[1])
			return nil
		},
	}
}

func newBackupCleanupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Delete backups older than the retention period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := a.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := a.backupManager(db).Cleanup(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Printf("Removed %d backups older than %d days\n", n, a.cfg.Backup.RetentionDays)
			return nil
		},
	}
}
