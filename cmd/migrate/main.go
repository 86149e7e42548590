// Command migrate applies the versioned PostgreSQL schema of the shop.
// SQLite deployments migrate themselves at server start and never need it.
package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/drobe/backend/internal/infrastructure/config"
	"github.com/drobe/backend/internal/infrastructure/logger"
	"github.com/drobe/backend/internal/infrastructure/migration"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const defaultMigrationsDir = "migrations"

var errUsage = errors.New("usage")

// dbCommand runs against an open migrator. args excludes the command name.
type dbCommand struct {
	args string
	help string
	run  func(m *migration.Migrator, args []string, log *zap.Logger) error
}

var dbCommands = map[string]dbCommand{
	"up": {
		help: "Apply all pending migrations",
		run:  func(m *migration.Migrator, _ []string, _ *zap.Logger) error { return m.Up() },
	},
	"down": {
		help: "Roll back all migrations",
		run:  func(m *migration.Migrator, _ []string, _ *zap.Logger) error { return m.Down() },
	},
	"step": {
		args: "<n>",
		help: "Apply n migrations (positive=up, negative=down)",
		run: func(m *migration.Migrator, args []string, _ *zap.Logger) error {
			n, err := intArg(args)
			if err != nil {
				return err
			}
			return m.Steps(n)
		},
	},
	"goto": {
		args: "<version>",
		help: "Migrate to a specific version",
		run: func(m *migration.Migrator, args []string, _ *zap.Logger) error {
			v, err := intArg(args)
			if err != nil || v < 0 {
				return fmt.Errorf("%w: version must be a non-negative number", errUsage)
			}
			return m.GoTo(uint(v))
		},
	},
	"version": {
		help: "Show current migration version",
		run: func(m *migration.Migrator, _ []string, log *zap.Logger) error {
			version, dirty, err := m.Version()
			if err != nil {
				return err
			}
			if version == 0 {
				log.Info("No migrations applied")
				return nil
			}
			log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
			return nil
		},
	},
	"force": {
		args: "<version>",
		help: "Force set migration version after a failed run",
		run: func(m *migration.Migrator, args []string, log *zap.Logger) error {
			v, err := intArg(args)
			if err != nil {
				return err
			}
			log.Warn("Forcing migration version", zap.Int("version", v))
			return m.Force(v)
		},
	},
	"drop": {
		args: "-confirm",
		help: "Drop every shop table",
		run: func(m *migration.Migrator, args []string, _ *zap.Logger) error {
			if !slices.Contains(args, "-confirm") && !slices.Contains(args, "--confirm") {
				return fmt.Errorf("%w: drop needs -confirm", errUsage)
			}
			return m.Drop()
		},
	},
}

func intArg(args []string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%w: missing number", errUsage)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", errUsage, args[0])
	}
	return n, nil
}

func main() {
	var (
		migrationsPath string
		logLevel       string
	)
	flag.StringVar(&migrationsPath, "path", "", "Migrations directory (default: the set embedded in the binary)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(2)
	}
	command, rest := args[0], args[1:]

	log, err := logger.New(logger.Config{Level: logLevel, Format: "console", Output: "stdout"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if migrationsPath != "" {
		if migrationsPath, err = filepath.Abs(migrationsPath); err != nil {
			log.Fatal("Failed to resolve migrations path", zap.Error(err))
		}
	}

	switch command {
	case "create":
		err = create(migrationsPath, rest, log)
	case "list":
		err = list(migrationsPath, log)
	default:
		cmd, ok := dbCommands[command]
		if !ok {
			log.Error("Unknown command", zap.String("command", command))
			printUsage()
			os.Exit(2)
		}
		err = withMigrator(migrationsPath, log, func(m *migration.Migrator) error {
			return cmd.run(m, rest, log)
		})
	}

	if errors.Is(err, errUsage) {
		log.Error("Invalid arguments", zap.String("command", command), zap.Error(err))
		os.Exit(2)
	}
	if err != nil {
		log.Fatal("Migration command failed", zap.String("command", command), zap.Error(err))
	}
}

// withMigrator opens the configured PostgreSQL database and runs fn
func withMigrator(path string, log *zap.Logger, fn func(*migration.Migrator) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if cfg.Database.Driver == config.DriverSQLite {
		return errors.New("versioned migrations target PostgreSQL; the sqlite driver migrates itself at server start")
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	source := path
	if source == "" {
		source = "embedded"
	}
	log.Info("Migrating",
		zap.String("database", cfg.Database.DBName),
		zap.String("migrations", source),
	)

	m, err := migration.New(db, path, log)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()
	return fn(m)
}

func create(dir string, args []string, log *zap.Logger) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: create needs a name", errUsage)
	}
	if dir == "" {
		dir = defaultMigrationsDir
	}
	description := ""
	if len(args) > 1 {
		description = args[1]
	}

	mf, err := migration.CreateMigration(dir, args[0], description)
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

func list(dir string, log *zap.Logger) error {
	var (
		names []string
		err   error
	)
	if dir == "" {
		names, err = migration.ListEmbedded()
	} else {
		names, err = migration.ListMigrations(dir)
	}
	if err != nil {
		return err
	}
	log.Info("Available migrations", zap.Int("count", len(names)))
	for _, name := range names {
		fmt.Println("  -", name)
	}
	return nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Drobe database migrations\n\nUsage:\n  migrate [flags] <command> [arguments]\n\nCommands:")
	names := make([]string, 0, len(dbCommands))
	for name := range dbCommands {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		cmd := dbCommands[name]
		fmt.Fprintf(os.Stderr, "  %-22s %s\n", name+" "+cmd.args, cmd.help)
	}
	fmt.Fprintf(os.Stderr, "  %-22s %s\n", "create <name> [desc]", "Write a new migration pair to ./migrations or -path")
	fmt.Fprintf(os.Stderr, "  %-22s %s\n", "list", "List available migrations")
	fmt.Fprintln(os.Stderr, "\nFlags:")
	flag.PrintDefaults()
	fmt.Fprintln(os.Stderr, "\nThe database comes from DROBE_DATABASE_* variables or the config file.")
}
