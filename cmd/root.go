package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/s0up4200/fetchr/config"
	"github.com/s0up4200/fetchr/download"
	"github.com/s0up4200/fetchr/people"
	"github.com/s0up4200/fetchr/requests"
	"github.com/s0up4200/fetchr/session"
)

var (
	cfgFile       string
	cfg           *config.Config
	logger        zerolog.Logger
	reloader      *session.Reloader
	sink          *download.DirSink
	requestClient *requests.Client
	peopleClient  *people.Client

	// Command flags
	tokenFlag string
	outputDir string

	version   = "dev"
	buildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "fetchr",
	Short: "A command line client for JSON HTTP services",
	Long: `fetchr talks to a JSON HTTP service: it builds request URLs, attaches the
bearer token, classifies failures and walks paginated listings.

Responses are printed as JSON or text. Attachments are written to the
download directory.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	if code := exitCode(err, reloader); code != 0 {
		os.Exit(code)
	}
}

// exitCode is 1 when the command failed or the session asked for a new login,
// even if the request itself went through
func exitCode(err error, r *session.Reloader) int {
	if err != nil {
		return 1
	}
	if r != nil && r.Required() {
		return 1
	}
	return 0
}

// SetVersion records the build information shown by the version and update commands
func SetVersion(v, built string) {
	version = v
	buildTime = built
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&tokenFlag, "token", "", "access token, overrides auth.token")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output-dir", "", "directory for downloaded attachments, overrides download.dir")

	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(versionCmd)
}

// initializeApp initializes the configuration and clients
func initializeApp(cmd *cobra.Command, args []string) error {
	loadDotEnv()

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("token") {
		cfg.Auth.Token = tokenFlag
	}
	if cmd.Flags().Changed("output-dir") {
		cfg.Download.Dir = outputDir
	}

	logger = setupLogger(cfg.Logging)

	reloader = session.NewReloader(logger, printLoginHint)
	sink = download.NewDirSink(cfg.Download.Dir, logger)

	requestClient, err = requests.NewClient(cfg.API.BaseURL, logger,
		requests.WithTimeout(cfg.API.Timeout),
		requests.WithTokenProvider(tokenProvider(cfg.Auth)),
		requests.WithSession(reloader),
		requests.WithFileSink(sink),
	)
	if err != nil {
		return fmt.Errorf("failed to create request client: %w", err)
	}

	peopleClient, err = people.NewClient(requestClient, logger, people.WithPageSize(cfg.People.PageSize))
	if err != nil {
		return fmt.Errorf("failed to create people client: %w", err)
	}

	logger.Debug().
		Str("base_url", requestClient.BaseURL()).
		Dur("timeout", cfg.API.Timeout).
		Str("download_dir", sink.Dir()).
		Msg("Client initialized")

	return nil
}

// loadDotEnv exports FETCHR_* values from ./.env without overriding the environment
func loadDotEnv() {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
	}
}

// tokenProvider reads the configured token sources in order: inline, file, env
func tokenProvider(auth config.AuthConfig) requests.TokenProvider {
	var chain session.Chain
	if auth.Token != "" {
		chain = append(chain, session.StaticToken(auth.Token))
	}
	if auth.TokenFile != "" {
		chain = append(chain, session.FileToken(auth.TokenFile))
	}
	if auth.TokenEnv != "" {
		chain = append(chain, session.EnvToken(auth.TokenEnv))
	}
	return chain
}

var loginHintOnce sync.Once

func printLoginHint() {
	loginHintOnce.Do(func() {
		fmt.Fprintln(os.Stderr, "Session expired, log in again: set auth.token, auth.token_file or FETCHR_AUTH_TOKEN with a fresh token.")
	})
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	var out io.Writer = os.Stderr
	color := cfg.Color && isTerminal(os.Stderr)

	if cfg.File != "" {
		out = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		}
		color = false
	}

	if cfg.Format == "json" {
		return zerolog.New(out).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    !color,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection to the service",
	Long:  `Test the connection to the configured service by requesting the people listing.`,
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	fmt.Printf("Testing connection to %s...\n", requestClient.BaseURL())

	ctx := context.Background()
	if err := peopleClient.TestConnection(ctx); err != nil {
		return err
	}

	fmt.Println("✓ Connection successful!")

	if _, ok := tokenProvider(cfg.Auth).Token(); ok {
		fmt.Println("- Access token: configured")
	} else {
		fmt.Println("- Access token: not configured")
	}
	fmt.Printf("- Download directory: %s\n", sink.Dir())
	fmt.Printf("- Page size: %d\n", peopleClient.PageSize())

	return nil
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fetchr %s (built %s)\n", version, buildTime)
	},
}
