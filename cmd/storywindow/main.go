package main

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/DaanHessen/storywindow/internal/engine"
	"github.com/DaanHessen/storywindow/internal/store"
	"github.com/DaanHessen/storywindow/internal/text"
	"github.com/DaanHessen/storywindow/internal/ui"
	"github.com/DaanHessen/storywindow/internal/util"
)

var (
	version      = "0.1.0"
	seedAlphabet = base32.NewEncoding("abcdefghijklmnopqrstuvwxyz234567").WithPadding(base32.NoPadding)
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	seedFlag := flag.String("seed", "", "Story seed string (optional; random if omitted)")
	dsn := flag.String("dsn", os.Getenv("DATABASE_URL"), "PostgreSQL DSN (optional; story is not saved without one)")
	migrations := flag.String("migrations", "", "Directory of migration files (default: embedded)")
	theme := flag.String("theme", "catppuccin", "Color theme: catppuccin|dracula|gruvbox|solarized_dark")
	markdown := flag.Bool("markdown", false, "Render paragraphs as markdown")
	follow := flag.Bool("follow", true, "Keep the view at the newest text while it is already at the bottom")
	resume := flag.Bool("resume", false, "Continue the most recent saved story")
	demo := flag.Int("demo", 0, "Preload N generated paragraphs")
	importPath := flag.String("import", "", "Preload paragraphs from a text file (blank-line separated)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "storywindow [--seed S] [--dsn DSN] [--theme NAME] [--markdown] [--demo N] [--import FILE] [--resume] [--follow=true|false] | migrate up|down | version\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) > 0 {
		switch args[0] {
		case "version":
			fmt.Println("storywindow", version)
			return
		case "migrate":
			if len(args) < 2 {
				log.Fatal("migrate requires 'up' or 'down'")
			}
			runMigrate(*dsn, *migrations, args[1])
			return
		default:
			flag.Usage()
			os.Exit(2)
		}
	}

	seedText := strings.TrimSpace(*seedFlag)
	if seedText == "" {
		generated, err := generateSeed()
		if err != nil {
			log.Fatalf("failed to generate seed: %v", err)
		}
		seedText = generated
	}

	cfg := util.Config{
		SeedText:       seedText,
		DSN:            *dsn,
		MigrationsDir:  *migrations,
		Theme:          *theme,
		Markdown:       *markdown,
		Follow:         *follow,
		Resume:         *resume,
		DemoParagraphs: *demo,
		ImportPath:     *importPath,
		DebugLog:       os.Getenv("STORYWINDOW_DEBUG_LOG"),
		Version:        version,
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var journal ui.Journal
	if cfg.DSN != "" {
		db, j := openJournal(ctx, &cfg)
		defer db.Close()
		journal = j
	}

	seed, err := engine.NewStorySeed(cfg.SeedText)
	if err != nil {
		log.Fatal(err)
	}
	if id, ok := journal.(interface{ StoryID() string }); ok {
		seed = seed.WithStory(id.StoryID())
	}
	preload, err := loadPreload(cfg, seed)
	if err != nil {
		log.Fatal(err)
	}
	narrator := text.WithFallback(text.NewTemplateNarrator(seed), text.NewTemplateNarrator(seed.WithStory("fallback")))

	if cfg.DebugLog != "" {
		f, err := tea.LogToFile(cfg.DebugLog, "storywindow")
		if err != nil {
			log.Fatalf("failed to open debug log: %v", err)
		}
		defer f.Close()
	} else {
		// the alt screen owns stdout and stderr while the program runs
		log.SetOutput(io.Discard)
	}

	if err := ui.Run(ctx, narrator, journal, cfg, preload); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		log.SetOutput(os.Stderr)
		log.Fatal(err)
	}
}

// openJournal applies migrations, connects, and binds a new or the latest story.
// A resumed story brings its own seed text into cfg.
func openJournal(ctx context.Context, cfg *util.Config) (*store.DB, *store.Journal) {
	mig, err := store.NewMigrator(cfg.DSN)
	if err != nil {
		log.Fatalf("migrations init failed: %v", err)
	}
	if cfg.MigrationsDir != "" {
		mig = mig.WithDir(cfg.MigrationsDir)
	}
	migCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := mig.Up(migCtx); err != nil && !errors.Is(err, store.ErrNoChange) {
		log.Fatalf("migrations failed: %v", err)
	}

	db, err := store.Open(ctx, *cfg)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	var j *store.Journal
	if cfg.Resume {
		j, err = store.ResumeJournal(ctx, db)
		if err == nil {
			cfg.SeedText = j.SeedText()
		}
	} else {
		j, err = store.StartJournal(ctx, db, cfg.SeedText)
	}
	if err != nil {
		db.Close()
		log.Fatalf("failed to open story: %v", err)
	}
	return db, j
}

func loadPreload(cfg util.Config, seed engine.StorySeed) ([]string, error) {
	var out []string
	if cfg.DemoParagraphs > 0 {
		out = append(out, text.Chronicle(seed, cfg.DemoParagraphs)...)
	}
	if cfg.ImportPath != "" {
		raw, err := os.ReadFile(cfg.ImportPath)
		if err != nil {
			return nil, errors.Wrap(err, "read import")
		}
		out = append(out, text.SplitParagraphs(string(raw))...)
	}
	return out, nil
}

func runMigrate(dsn, dir, action string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	migrator, err := store.NewMigrator(dsn)
	if err != nil {
		log.Fatal(err)
	}
	if dir != "" {
		migrator = migrator.WithDir(dir)
	}
	switch action {
	case "up":
		if err := migrator.Up(ctx); err != nil && !errors.Is(err, store.ErrNoChange) {
			log.Fatal(err)
		}
		fmt.Println("Migrations applied")
	case "down":
		if err := migrator.Down(ctx); err != nil && !errors.Is(err, store.ErrNoChange) {
			log.Fatal(err)
		}
		fmt.Println("Migrations rolled back")
	default:
		log.Fatal("unknown migrate action; use up|down")
	}
}

func generateSeed() (string, error) {
	buf := make([]byte, 15) // 24 characters base32
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return strings.ToLower(seedAlphabet.EncodeToString(buf)), nil
}
