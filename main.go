package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"git.0xdad.com/tblyler/medicate/config"
	"git.0xdad.com/tblyler/medicate/db"
	"git.0xdad.com/tblyler/medicate/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func errLog(messages ...interface{}) {
	fmt.Fprintln(os.Stderr, messages...)
}

// app holds everything a command needs once the environment is read
type app struct {
	config   config.Config
	logger   zerolog.Logger
	closeLog func() error
	store    db.Store
	repos    *db.Repositories
	prompt   *prompter
	out      io.Writer
}

func openApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, err := config.NewEnv()
	if err != nil {
		return nil, err
	}

	logger, closeLog := logging.New(logging.Options{
		Level:  cfg.LogLevel(),
		Format: cfg.LogFormat(),
		File:   cfg.LogFile(),
	})

	store, err := openStore(ctx, cfg)
	if err != nil {
		closeLog()
		return nil, err
	}

	env := cfg.Environment()
	logger = logger.With().Str("env", env).Logger()

	return &app{
		config:   cfg,
		logger:   logger,
		closeLog: closeLog,
		store:    store,
		repos:    db.NewRepositories(store, env, logger),
		prompt:   newPrompter(cmd.InOrStdin(), cmd.OutOrStdout()),
		out:      cmd.OutOrStdout(),
	}, nil
}

func (a *app) Close() error {
	err := a.store.Close()
	a.closeLog()

	return err
}

func openStore(ctx context.Context, cfg config.Config) (db.Store, error) {
	backend, err := cfg.StoreBackend()
	if err != nil {
		return nil, err
	}

	if backend == config.BackendBadger {
		badgerPath, err := cfg.BadgerPath()
		if err != nil {
			return nil, err
		}

		return db.NewBadger(badgerPath)
	}

	return db.NewRedis(ctx, cfg.RedisURL())
}

// withApp runs fn with an opened app, closing it afterwards
func withApp(fn func(cmd *cobra.Command, args []string, a *app) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), cmd)
		if err != nil {
			return err
		}

		defer a.Close()

		return fn(cmd, args, a)
	}
}

func (a *app) log(messages ...interface{}) {
	fmt.Fprintln(a.out, messages...)
}

type prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

// ask prints label and returns the trimmed line typed in reply
func (p *prompter) ask(label string) string {
	fmt.Fprint(p.out, label+": ")
	p.scanner.Scan()

	return string(bytes.TrimSpace(p.scanner.Bytes()))
}

// require is ask for a value that must not be empty
func (p *prompter) require(label string) (string, error) {
	val := p.ask(label)
	if val != "" {
		return val, nil
	}

	if err := p.scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to get %s from STDIN prompt: %w", label, err)
	}

	return "", fmt.Errorf("no %s provided", label)
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "medicate",
		Short:         "Track medicines, their daily schedule and the doses taken",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(serveCmd())
	root.AddCommand(runCmd())
	root.AddCommand(medicineCmd())
	root.AddCommand(scheduleCmd())
	root.AddCommand(historyCmd())

	return root
}

func main() {
	if err := rootCmd().ExecuteContext(context.Background()); err != nil {
		errLog(err.Error())
		os.Exit(1)
	}
}
