package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"mpin_backend/internal/mpin/domain"
	"mpin_backend/internal/mpin/service"
	"mpin_backend/internal/mpin/transport"
	"mpin_backend/platform/apperr"
	"mpin_backend/platform/config"

	"github.com/spf13/cobra"
)

type checkOptions struct {
	input  service.Input
	mode   string
	asJSON bool
}

func newCheckCmd(root *rootOptions) *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Evaluate one MPIN",
		Long: `Evaluate one MPIN against the blacklist and the reference years.

Without --mpin the command prompts for the code and for every year not
given as a flag; press Enter to skip a year.`,
		Example: `  mpincheck check --mpin 1985 --dob-self 1985
  mpincheck check --mpin 200120 --dob-self 2001 --mode contains --json
  mpincheck check`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("mpin") {
				if err := promptInput(cmd.InOrStdin(), cmd.OutOrStdout(), &opts.input, cmd.Flags().Changed); err != nil {
					return err
				}
			}
			return runCheck(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.input.MPIN, "mpin", "", "the 4- or 6-digit MPIN to evaluate")
	cmd.Flags().StringVar(&opts.input.DOBSelf, "dob-self", "", "own birth year (YYYY)")
	cmd.Flags().StringVar(&opts.input.DOBSpouse, "dob-spouse", "", "spouse's birth year (YYYY)")
	cmd.Flags().StringVar(&opts.input.Anniversary, "anniversary", "", "wedding anniversary year (YYYY)")
	cmd.Flags().StringVar(&opts.mode, "mode", string(domain.MatchExact), "year matching mode: exact or contains")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the verdict as JSON")
	return cmd
}

func runCheck(cmd *cobra.Command, root *rootOptions, opts *checkOptions) error {
	ctx := cmd.Context()
	list, err := root.loadBlacklist(ctx)
	if err != nil {
		return err
	}

	svc, err := service.New(list, &config.Config{MatchMode: opts.mode, MaxBatchSize: 1, BatchConcurrency: 1}, nil, root.log)
	if err != nil {
		return err
	}

	opts.input.MPIN = strings.TrimSpace(opts.input.MPIN)
	result, err := svc.Evaluate(ctx, opts.input)
	if err != nil {
		if opts.asJSON {
			if domainErr, ok := apperr.As(err); ok {
				_ = writeJSON(cmd.OutOrStdout(), map[string]string{"error": domainErr.Message, "code": domainErr.Code})
			}
		}
		return err
	}

	resp := transport.EvaluateResponse{
		Strength:   string(result.Verdict.Strength),
		Reasons:    result.Verdict.ReasonStrings(),
		GuessScore: result.GuessScore,
	}
	if opts.asJSON {
		return writeJSON(cmd.OutOrStdout(), resp)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Strength: %s\n", resp.Strength)
	if len(resp.Reasons) == 0 {
		fmt.Fprintln(out, "Reasons:  none")
	} else {
		fmt.Fprintf(out, "Reasons:  %s\n", strings.Join(resp.Reasons, ", "))
	}
	fmt.Fprintf(out, "Guess score (advisory): %d/4\n", resp.GuessScore)
	return nil
}

// promptInput asks for the code and the reference years. Values whose flag
// was set on the command line are kept and not asked for. Blank answers and
// end of input leave a year absent.
func promptInput(in io.Reader, out io.Writer, input *service.Input, flagSet func(name string) bool) error {
	r := bufio.NewReader(in)
	prompts := []struct {
		flag  string
		label string
		dst   *string
	}{
		{"mpin", "Enter a 4-digit or 6-digit MPIN: ", &input.MPIN},
		{"dob-self", "Enter your birth year (YYYY) or press Enter to skip: ", &input.DOBSelf},
		{"dob-spouse", "Enter your spouse's birth year (YYYY) or press Enter to skip: ", &input.DOBSpouse},
		{"anniversary", "Enter your anniversary year (YYYY) or press Enter to skip: ", &input.Anniversary},
	}

	for _, p := range prompts {
		if flagSet(p.flag) {
			continue
		}
		fmt.Fprint(out, p.label)
		line, err := r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read input: %w", err)
		}
		*p.dst = strings.TrimSpace(line)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
