package cli

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"inkwell/internal/domain"
)

type openFunc func(cmd *cobra.Command) (*runtime, func(), error)

func newAccountCmd(open openFunc) *cobra.Command {
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Manage accounts",
	}
	accountCmd.AddCommand(newAccountCreateCmd(open))
	accountCmd.AddCommand(newAccountSetRoleCmd(open))
	accountCmd.AddCommand(newAccountListCmd(open))
	return accountCmd
}

func newAccountCreateCmd(open openFunc) *cobra.Command {
	var (
		password    string
		displayName string
		role        string
	)

	cmd := &cobra.Command{
		Use:   "create <login-name>",
		Short: "Create a local password-backed account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsedRole, err := parseRole(role)
			if err != nil {
				return err
			}

			rt, cleanup, err := open(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			acct, err := rt.accounts.CreateLocal(cmd.Context(), args[0], password, displayName, parsedRole)
			if err != nil {
				return err
			}
			fmt.Fprintf(rt.out, "created account %d (%s, role %s)\n", acct.ID, acct.LoginName, acct.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "account password (required)")
	cmd.Flags().StringVar(&displayName, "display-name", "", "display name (defaults to the login name)")
	cmd.Flags().StringVar(&role, "role", "USER", "account role (USER or ADMIN)")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newAccountSetRoleCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "set-role <account-id> <role>",
		Short: "Change an account's role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid account id %q", args[0])
			}
			role, err := parseRole(args[1])
			if err != nil {
				return err
			}

			rt, cleanup, err := open(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := rt.accounts.SetRole(cmd.Context(), id, role); err != nil {
				return err
			}
			fmt.Fprintf(rt.out, "account %d role set to %s\n", id, role)
			return nil
		},
	}
}

func newAccountListCmd(open openFunc) *cobra.Command {
	var maxResults int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, cleanup, err := open(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			accounts, total, err := rt.accounts.List(cmd.Context(), domain.PageRequest{MaxResults: maxResults})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(rt.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tLOGIN\tROLE\tPROVIDER\tCREATED")
			for _, a := range accounts {
				provider := a.Provider
				if provider == "" {
					provider = "-"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					a.ID, a.LoginName, a.Role, provider, a.CreatedAt.Format("2006-01-02 15:04"))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(rt.out, "%d of %d accounts\n", len(accounts), total)
			return nil
		},
	}
	cmd.Flags().IntVar(&maxResults, "max-results", 0, "maximum accounts to list")
	return cmd
}

func parseRole(raw string) (domain.Role, error) {
	role := domain.Role(strings.ToUpper(strings.TrimSpace(raw)))
	if !role.Valid() {
		return "", fmt.Errorf("invalid role %q (want USER or ADMIN)", raw)
	}
	return role, nil
}
