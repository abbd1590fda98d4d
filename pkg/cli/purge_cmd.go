package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"inkwell/internal/service"
)

func newPurgeCmd(open openFunc) *cobra.Command {
	var retention time.Duration

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Permanently remove posts soft-deleted longer ago than the retention window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, cleanup, err := open(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			purge := service.NewPurgeService(rt.posts, retention, rt.logger)
			purged, err := purge.RunOnce(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(rt.out, "purged %d posts\n", purged)
			return nil
		},
	}
	cmd.Flags().DurationVar(&retention, "retention", 30*24*time.Hour, "how long soft-deleted posts are kept")
	return cmd
}
