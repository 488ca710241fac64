package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/nfrund/miniapp/internal/config"
	"github.com/nfrund/miniapp/internal/logging"
	"github.com/nfrund/miniapp/internal/mockdata"
	"github.com/nfrund/miniapp/internal/profile"
	"github.com/nfrund/miniapp/internal/termview"
	"github.com/nfrund/miniapp/internal/verifier"
	"github.com/nfrund/miniapp/internal/verifyclient"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	errVerificationFailed = errors.New("verification failed")
	errBypassNotAllowed   = errors.New("--bypass requires --allow-bypass")
)

type verifyOptions struct {
	endpoint    string
	initData    string
	userJSON    string
	locale      string
	diagnostics bool
	bypass      bool
	allowBypass bool
	logLevel    string
}

func newVerifyCmd() *cobra.Command {
	opts := &verifyOptions{}
	fs := afero.NewOsFs()

	c := &cobra.Command{
		Use:   "verify",
		Short: "Verify init data against an endpoint",
		Long: `Runs the verification flow once and prints every region update.

Init data is taken from --init-data, or read from stdin when the flag is
omitted. The command exits with status 1 when the flow ends in the failed state.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, fs, opts)
		},
	}

	f := c.Flags()
	f.StringVar(&opts.endpoint, "endpoint", "", "verification endpoint URL (defaults to $VERIFY_URL or the production endpoint)")
	f.StringVar(&opts.initData, "init-data", "", "raw init data string")
	f.StringVar(&opts.userJSON, "user-json", "", "file holding the unsafe user view as JSON")
	f.StringVar(&opts.locale, "locale", "en", "fallback locale for labels")
	f.BoolVar(&opts.diagnostics, "diagnostics", false, "print a technical trace on failure")
	f.BoolVar(&opts.bypass, "bypass", false, "skip the endpoint and use mock session data")
	f.BoolVar(&opts.allowBypass, "allow-bypass", false, "permit --bypass")
	f.StringVar(&opts.logLevel, "log-level", "warn", "log level written to stderr")
	return c
}

func runVerify(cmd *cobra.Command, fs afero.Fs, opts *verifyOptions) error {
	out := cmd.OutOrStdout()
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), "text", opts.logLevel)

	user, err := loadUser(fs, opts.userJSON)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	labels, err := profile.NewCatalog(opts.locale)
	if err != nil {
		return err
	}

	vopts := verifier.Options{
		Diagnostics: opts.diagnostics,
		Labels:      labels,
		Logger:      logger,
	}

	var (
		platform verifier.Platform
		endpoint verifier.Endpoint
	)

	if opts.bypass {
		if !opts.allowBypass {
			return errBypassNotAllowed
		}
		if user == nil {
			u := mockdata.DefaultUser()
			user = &u
		}
		vopts.Bypass = true
		vopts.Mock = user
	} else {
		initData, err := readInitData(opts.initData, cmd.InOrStdin(), out)
		if err != nil {
			return err
		}
		client, err := verifyclient.New(resolveEndpoint(opts.endpoint))
		if err != nil {
			return err
		}
		platform = &flagPlatform{initData: initData, user: user}
		endpoint = client
	}

	sv, err := verifier.New(platform, endpoint, termview.New(out), vopts)
	if err != nil {
		return err
	}

	outcome := sv.Run(cmd.Context())
	fmt.Fprintf(out, "state: %s\n", outcome.State)
	if outcome.State == verifier.Failed {
		return errVerificationFailed
	}
	return nil
}

func resolveEndpoint(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("VERIFY_URL"); env != "" {
		return env
	}
	return config.DefaultProductionVerifyURL
}
