package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/Yitzhakza/electic/internal/infrastructure/config"
	"github.com/Yitzhakza/electic/internal/infrastructure/logger"
	"github.com/Yitzhakza/electic/internal/infrastructure/migration"
	"github.com/Yitzhakza/electic/migrations"
)

var errUsage = errors.New("usage")

type options struct {
	path    string
	confirm bool
}

// schemaCommand runs against the database; args exclude the command name
type schemaCommand func(m *migration.Migrator, args []string, opts options, log *zap.Logger) error

var schemaCommands = map[string]schemaCommand{
	"up":   func(m *migration.Migrator, _ []string, _ options, _ *zap.Logger) error { return m.Up() },
	"down": func(m *migration.Migrator, _ []string, _ options, _ *zap.Logger) error { return m.Down() },
	"step": func(m *migration.Migrator, args []string, _ options, _ *zap.Logger) error {
		n, err := strconv.Atoi(argAt(args, 0))
		if err != nil {
			return fmt.Errorf("%w: migrate step <n>", errUsage)
		}
		return m.Steps(n)
	},
	"goto": func(m *migration.Migrator, args []string, _ options, _ *zap.Logger) error {
		v, err := strconv.ParseUint(argAt(args, 0), 10, 32)
		if err != nil {
			return fmt.Errorf("%w: migrate goto <version>", errUsage)
		}
		return m.GoTo(uint(v))
	},
	"force": func(m *migration.Migrator, args []string, _ options, _ *zap.Logger) error {
		v, err := strconv.Atoi(argAt(args, 0))
		if err != nil {
			return fmt.Errorf("%w: migrate force <version>", errUsage)
		}
		return m.Force(v)
	},
	"version": func(m *migration.Migrator, _ []string, _ options, log *zap.Logger) error {
		v, dirty, err := m.Version()
		if err != nil {
			return err
		}
		if v == 0 {
			log.Info("No migrations applied")
			return nil
		}
		log.Info("Current migration version", zap.Uint("version", v), zap.Bool("dirty", dirty))
		return nil
	},
	"drop": func(m *migration.Migrator, _ []string, opts options, _ *zap.Logger) error {
		if !opts.confirm {
			return fmt.Errorf("%w: drop needs -confirm", errUsage)
		}
		return m.Drop()
	},
}

func main() {
	var (
		opts     options
		logLevel string
	)
	flag.StringVar(&opts.path, "path", "", "Read migrations from this directory instead of the embedded set")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&opts.confirm, "confirm", false, "Confirm destructive commands (drop)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(2)
	}

	log, err := logger.ForCLI(logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	if err := run(args[0], args[1:], opts, log); err != nil {
		if errors.Is(err, errUsage) {
			log.Error("Invalid arguments", zap.Error(err))
			printUsage()
			os.Exit(2)
		}
		log.Fatal("Migration command failed", zap.String("command", args[0]), zap.Error(err))
	}
}

func run(command string, args []string, opts options, log *zap.Logger) error {
	switch command {
	case "create":
		return create(args, opts, log)
	case "list":
		return list(opts)
	}

	cmd, ok := schemaCommands[command]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	m, closeDB, err := openMigrator(cfg.Database.DSN(), opts.path, log)
	if err != nil {
		return err
	}
	defer closeDB()
	defer m.Close()

	return cmd(m, args, opts, log)
}

func openMigrator(dsn, path string, log *zap.Logger) (*migration.Migrator, func(), error) {
	if path != "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, nil, fmt.Errorf("resolve migrations path: %w", err)
		}
		m, err := migration.NewFromDir(dsn, abs, log)
		return m, func() {}, err
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}
	m, err := migration.NewFromFS(db, migrations.FS, ".", log)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return m, func() { _ = db.Close() }, nil
}

func create(args []string, opts options, log *zap.Logger) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: migrate create <name> [description]", errUsage)
	}
	dir := opts.path
	if dir == "" {
		dir = "migrations"
	}
	mf, err := migration.CreateMigration(dir, args[0], argAt(args, 1))
	if err != nil {
		return err
	}
	log.Info("Migration created",
		zap.String("version", mf.Version),
		zap.String("up_file", mf.UpPath),
		zap.String("down_file", mf.DownPath),
	)
	return nil
}

func list(opts options) error {
	var src fs.FS = migrations.FS
	if opts.path != "" {
		src = os.DirFS(opts.path)
	}
	all, err := migration.ListMigrations(src)
	if err != nil {
		return err
	}
	for _, m := range all {
		fmt.Printf("  %06d  %s\n", m.Version, m.Name)
	}
	return nil
}

func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func printUsage() {
	fmt.Println(`electic schema migrations

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (positive=up, negative=down)
  goto <version>        Migrate to a specific version
  version               Show current migration version
  force <version>       Force set migration version after a failed run
  drop                  Drop all database objects (requires -confirm)
  create <name> [desc]  Create the next sequential migration pair
  list                  List available migrations

Flags:
  -path string          Migrations directory (default: embedded migrations)
  -log-level string     Log level: debug, info, warn, error (default: info)
  -confirm              Confirm destructive commands

Environment Variables:
  ELECTIC_DATABASE_URL, or ELECTIC_DATABASE_HOST, ELECTIC_DATABASE_PORT,
  ELECTIC_DATABASE_USER, ELECTIC_DATABASE_PASSWORD, ELECTIC_DATABASE_DBNAME

Examples:
  migrate up
  migrate step -1
  migrate create add_coupon_index "Index products by coupon code"`)
}
