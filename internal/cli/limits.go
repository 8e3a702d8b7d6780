package cli

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/forgekit/ghclient/pkg/ratelimit"
)

// limitsCommand prints the last known rate limit state per quota bucket.
// The state is populated from response headers, so a fresh process shows
// unknown values until the first request.
func (c *CLI) limitsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "limits",
		Short: "Show the known rate limit state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			buckets := []string{ratelimit.BucketCore, ratelimit.BucketSearch}
			if c.settings.Output == "json" {
				out := map[string]ratelimit.State{}
				for _, b := range buckets {
					out[b] = c.client.RateLimit(b)
				}
				return c.render.JSON(out)
			}

			rows := make([][]string, 0, len(buckets))
			for _, b := range buckets {
				state := c.client.RateLimit(b)
				remaining := "unknown"
				if state.Remaining != nil {
					remaining = strconv.Itoa(*state.Remaining)
				}
				reset := "unknown"
				if state.Reset != nil {
					reset = time.Unix(*state.Reset, 0).Local().Format(time.RFC822)
				}
				rows = append(rows, []string{b, remaining, strconv.Itoa(state.Used), reset})
			}
			c.render.Table([]string{"BUCKET", "REMAINING", "USED", "RESET"}, rows)
			return nil
		},
	}
}
