// Command mpincheck evaluates MPINs from the terminal and audits the blacklist.
package main

import (
	"context"
	"fmt"
	"os"

	"mpin_backend/internal/blacklist"
	"mpin_backend/internal/mpin/domain"
	"mpin_backend/platform/apperr"
	"mpin_backend/platform/config"
	"mpin_backend/platform/logger"

	"github.com/spf13/cobra"
)

const (
	exitInvalidFormat = 1
	exitFailure       = 2
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	blacklistPath string
	verbose       bool
	log           *logger.Logger
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{log: logger.Nop()}

	root := &cobra.Command{
		Use:   "mpincheck",
		Short: "Classify 4- and 6-digit MPINs as STRONG or WEAK",
		Long: `mpincheck classifies a numeric MPIN as STRONG or WEAK.

A code is WEAK when it appears on the commonly-used blacklist or when it
equals one of the supplied reference years (own birth year, spouse's birth
year, wedding anniversary), in full or as its last two digits.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.verbose {
				opts.log = logger.NewWithWriter("development", cmd.ErrOrStderr())
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.blacklistPath, "blacklist", "", "path to a blacklist YAML file (default: embedded list)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging on stderr")

	root.AddCommand(newCheckCmd(opts))
	root.AddCommand(newBlacklistCmd(opts))
	return root
}

// loadBlacklist returns the --blacklist file when given, the embedded list otherwise.
func (o *rootOptions) loadBlacklist(ctx context.Context) (*blacklist.Set, error) {
	cfg := &config.Config{BlacklistSource: config.BlacklistSourceEmbedded}
	if o.blacklistPath != "" {
		cfg.BlacklistSource = config.BlacklistSourceFile
		cfg.BlacklistPath = o.blacklistPath
	}
	return blacklist.Load(ctx, cfg, nil, o.log)
}

func exitCode(err error) int {
	if apperr.GetCode(err) == domain.CodeInvalidFormat {
		return exitInvalidFormat
	}
	return exitFailure
}
