package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/overunder/internal/service"
)

var (
	predictHome       int
	predictAway       int
	predictVersus     int
	predictAutoDelete bool
)

var predictCmd = &cobra.Command{
	Use:   "predict <match-link|match-id>",
	Short: "Predict the total-points outcome of one match and print the result as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initPredict(ctx, "predict")
		if err != nil {
			return err
		}
		defer env.Close()

		resp, err := env.Service.Predict(ctx, predictRequest(args[0]))
		if err != nil {
			if kind := service.KindOf(err); kind != "" {
				return eris.Wrapf(err, "predict (%s)", kind)
			}
			return eris.Wrap(err, "predict")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	},
}

// predictRequest builds a request from a match link or a bare event id.
func predictRequest(arg string) service.Request {
	req := service.Request{
		HomeRecentCount:   predictHome,
		AwayRecentCount:   predictAway,
		VersusRecentCount: predictVersus,
		AutoDelete:        predictAutoDelete,
	}
	arg = strings.TrimSpace(arg)
	if isDigits(arg) {
		req.MatchID = arg
	} else {
		req.MatchLink = arg
	}
	return req
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func init() {
	predictCmd.Flags().IntVar(&predictHome, "home", 10, "recent home matches of the home team")
	predictCmd.Flags().IntVar(&predictAway, "away", 10, "recent away matches of the away team")
	predictCmd.Flags().IntVar(&predictVersus, "versus", 5, "recent head-to-head matches")
	predictCmd.Flags().BoolVar(&predictAutoDelete, "auto-delete", false, "remove artifacts after a successful prediction")
	rootCmd.AddCommand(predictCmd)
}
