// coursectl is the command-line front end of the course editor. Every
// command restores the persisted session, runs one Store operation and
// prints the outcome; the Store persists the new state itself.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"course-studio/internal/config"
	"course-studio/internal/delivery"
	"course-studio/internal/gateway"
	"course-studio/internal/logger"
	"course-studio/internal/persist"
	"course-studio/internal/sftpclient"
	"course-studio/internal/store"
)

// redisPrefix namespaces session keys in a shared Redis.
const redisPrefix = "course-studio:"

type rootOptions struct {
	envFile string
	apiURL  string
	profile string
	output  string
	verbose bool
}

type app struct {
	cfg   config.Config
	log   *logger.Logger
	gw    *gateway.Client
	dl    *delivery.Downloader
	store *store.Store
	out   io.Writer
	// output format for structured results
	format string

	mu        sync.Mutex
	delivered []delivery.Artifact
	closers   []func()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand(out io.Writer) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "coursectl",
		Short:         "Edit courses against the course service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVar(&opts.envFile, "env-file", ".env", "dotenv file merged into the environment (missing file is ignored)")
	pf.StringVar(&opts.apiURL, "api", "", "course service base URL (overrides COURSE_API_BASE_URL)")
	pf.StringVar(&opts.profile, "profile", "", "session profile; each profile keeps its own persisted state")
	pf.StringVarP(&opts.output, "output", "o", "yaml", "output format: yaml|json")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "log to stderr")

	// Commands build the app lazily so --help never touches config or state.
	var run runFunc = func(fn func(ctx context.Context, a *app, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer a.close()
			return fn(cmd.Context(), a, args)
		}
	}

	root.AddCommand(
		newCourseCommands(run)...,
	)
	root.AddCommand(
		newObjectiveCommand(run),
		newGenerateCommand(run),
		newChatCommand(run),
		newExportCommand(run),
		newExportAllCommand(run),
		newCatalogCommand(run),
		newOutlineCommand(run),
		newDriftCommand(run),
		newStatusCommand(run),
		newLexiconCommand(run),
	)
	return root
}

type runFunc func(fn func(ctx context.Context, a *app, args []string) error) func(*cobra.Command, []string) error

func newApp(ctx context.Context, opts *rootOptions, out io.Writer) (*app, error) {
	if err := config.LoadDotEnv(opts.envFile); err != nil {
		return nil, err
	}
	cfg := config.Load()
	if opts.apiURL != "" {
		cfg.APIBaseURL = opts.apiURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	log := logger.Nop()
	if opts.verbose {
		l, err := logger.New(cfg.LogMode)
		if err != nil {
			return nil, err
		}
		log = l
	}

	a := &app{cfg: cfg, log: log, out: out, format: opts.output}
	a.closers = append(a.closers, log.Sync)

	persister, err := a.openPersister(ctx)
	if err != nil {
		a.close()
		return nil, err
	}

	a.gw = gateway.New(cfg.APIBaseURL, cfg.APITimeout)
	a.dl = delivery.NewDownloader(a.gw, cfg.ExportDir, log)
	if cfg.ExportUpload {
		up := sftpConfig(cfg)
		a.dl.Upload = &up
	}
	// export-all delivers from several workers
	a.dl.OnDelivered = func(art delivery.Artifact) {
		a.mu.Lock()
		defer a.mu.Unlock()
		a.delivered = append(a.delivered, art)
	}

	storeOpts := []store.Option{
		store.WithPersister(persister),
		store.WithOpener(a.dl),
		store.WithLogger(log),
	}
	if opts.profile != "" {
		storeOpts = append(storeOpts, store.WithKey(store.PersistKey+"."+opts.profile))
	}
	a.store = store.New(a.gw, storeOpts...)
	if err := a.store.Restore(ctx); err != nil {
		// a broken snapshot should not lock the user out
		log.Warn("session restore failed, starting fresh", "error", err)
	}
	return a, nil
}

func (a *app) openPersister(ctx context.Context) (persist.Persister, error) {
	switch a.cfg.StateBackend {
	case config.BackendRedis:
		rdb, err := persist.DialRedis(ctx, a.cfg.RedisAddr, a.cfg.RedisPassword, a.cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = rdb.Close() })
		return persist.NewRedisStore(rdb, redisPrefix, 0), nil
	default:
		return persist.NewFileStore(a.cfg.StateDir), nil
	}
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// storeErr turns the Store's error string into a command failure.
func (a *app) storeErr() error {
	if msg := a.store.State().Error; msg != "" {
		return errors.New(msg)
	}
	return nil
}

func sftpConfig(cfg config.Config) sftpclient.Config {
	return sftpclient.Config{
		Host:                  cfg.SFTPHost,
		Port:                  cfg.SFTPPort,
		User:                  cfg.SFTPUser,
		Pass:                  cfg.SFTPPass,
		RemoteDir:             cfg.SFTPDir,
		KnownHostsFile:        cfg.SFTPKnownHosts,
		InsecureIgnoreHostKey: cfg.SFTPInsecureIgnoreHostKey,
	}
}
