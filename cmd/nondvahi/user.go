package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gramarogya/nondvahi/internal/auth"
	"github.com/gramarogya/nondvahi/internal/model"
	"github.com/gramarogya/nondvahi/internal/store"
)

func newUserCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage login accounts",
	}
	cmd.AddCommand(newUserAddCmd(a))
	cmd.AddCommand(newUserResetCmd(a))
	cmd.AddCommand(newUserListCmd(a))
	cmd.AddCommand(newHashPasswordsCmd(a))
	return cmd
}

// readPassword takes the flag value, or the first line of stdin when the flag
// is empty.
func readPassword(cmd *cobra.Command, flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	cmd.Print("Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newUserAddCmd(a *app) *cobra.Command {
	var village, role, password string
	cmd := &cobra.Command{
		Use:     "add <username>",
		Short:   "Create a user",
		Example: "  nondvahi user add asha --village Kalthan --role user",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd, password)
			if err != nil {
				return err
			}
			in := model.NewUser{Username: args[0], Password: pw, Village: village, Role: role}
			if err := in.Validate(); err != nil {
				return err
			}

			db, err := a.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			hash, err := auth.HashPassword(in.Password)
			if err != nil {
				return err
			}
			u, err := store.NewUserStore(db).Create(in.Username, hash, in.Village, in.Role)
			if errors.Is(err, store.ErrDuplicate) {
				return errors.New("Username already exists")
			}
			if err != nil {
				return err
			}
			cmd.Printf("Created user %s (id %d, village %s, role %s)\n", u.Username, u.ID, u.Village, u.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&village, "village", "", "Village the user records data for (required)")
	cmd.Flags().StringVar(&role, "role", model.RoleUser, "user or admin")
	cmd.Flags().StringVar(&password, "password", "", "Password; read from stdin when omitted")
	_ = cmd.MarkFlagRequired("village")
	return cmd
}

func newUserResetCmd(a *app) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "reset-password <username>",
		Short: "Set a new password and end the user's sessions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd, password)
			if err != nil {
				return err
			}
			if pw == "" {
				return errors.New("password is required")
			}

			db, err := a.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			hash, err := auth.HashPassword(pw)
			if err != nil {
				return err
			}
			err = store.NewUserStore(db).UpdatePassword(model.Clean(args[0]), hash)
			if errors.Is(err, store.ErrNotFound) {
				return errors.New("User not found")
			}
			if err != nil {
				return err
			}
			cmd.Printf("Password reset for %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "New password; read from stdin when omitted")
	return cmd
}

func newUserListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := a.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			users, err := store.NewUserStore(db).List()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tUSERNAME\tVILLAGE\tROLE")
			for _, u := range users {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", u.ID, u.Username, u.Village, u.Role)
			}
			return tw.Flush()
		},
	}
}

func newHashPasswordsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "hash-passwords",
		Short: "Replace plain-text passwords left by older deployments with bcrypt hashes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := a.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := store.NewUserStore(db).RehashPlaintext(auth.IsHashed, auth.HashPassword)
			if err != nil {
				return err
			}
			cmd.Printf("Hashed %d passwords\n", n)
			return nil
		},
	}
}
