package store

import (
	"context"
	"database/sql"
	errs "errors"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/DaanHessen/storywindow/internal/util"
)

var (
	ErrNoChange = errs.New("no change")
	ErrNoDSN    = errs.New("missing DSN")
	ErrNoStory  = errs.New("no story to continue")
)

// DB wraps gorm.DB for repositories and exposes Close.
type DB struct {
	gorm *gorm.DB
	sql  *sql.DB
}

func (d *DB) Close() error { return d.sql.Close() }
func (d *DB) Gorm() *gorm.DB { return d.gorm }

// Open connects to PostgreSQL per config.
func Open(ctx context.Context, cfg util.Config) (*DB, error) {
	if cfg.DSN == "" {
		return nil, ErrNoDSN
	}
	gdb, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		// stdout belongs to the TUI
		Logger: logger.Discard,
	})
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}
	sdb, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sdb.SetConnMaxLifetime(30 * time.Minute)
	sdb.SetMaxOpenConns(10)
	sdb.SetMaxIdleConns(5)
	if err := sdb.PingContext(ctx); err != nil {
		return nil, errors.Wrap(err, "ping postgres")
	}
	return &DB{gorm: gdb, sql: sdb}, nil
}

// WithTx executes fn within a database transaction.
func (d *DB) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return d.gorm.WithContext(ctx).Transaction(fn)
}

// Story is one persisted play-through.
type Story struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	SeedText  string
	CreatedAt time.Time
}

// Paragraph is one entry of a story's transcript; Idx is its position in the sequence.
type Paragraph struct {
	StoryID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Idx     int       `gorm:"primaryKey"`
	Body    string
}

// ChoiceRecord is a choice the reader made after paragraph AfterIdx.
type ChoiceRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	StoryID   uuid.UUID `gorm:"type:uuid"`
	AfterIdx  int
	Label     string
	CreatedAt time.Time
}

func (ChoiceRecord) TableName() string { return "choices" }

type StoryRepo struct{ db *DB }

func NewStoryRepo(db *DB) *StoryRepo { return &StoryRepo{db: db} }

func (r *StoryRepo) Create(ctx context.Context, seedText string) (Story, error) {
	s := Story{ID: uuid.New(), SeedText: seedText, CreatedAt: time.Now().UTC()}
	if err := r.db.gorm.WithContext(ctx).Create(&s).Error; err != nil {
		return Story{}, errors.Wrap(err, "create story")
	}
	return s, nil
}

// Latest returns the most recently started story.
func (r *StoryRepo) Latest(ctx context.Context) (Story, error) {
	var s Story
	err := r.db.gorm.WithContext(ctx).Order("created_at DESC").Limit(1).Take(&s).Error
	if errs.Is(err, gorm.ErrRecordNotFound) {
		return Story{}, ErrNoStory
	}
	if err != nil {
		return Story{}, errors.Wrap(err, "latest story")
	}
	return s, nil
}

type ParagraphRepo struct{ db *DB }

func NewParagraphRepo(db *DB) *ParagraphRepo { return &ParagraphRepo{db: db} }

// Append stores paragraphs at positions start, start+1, ...
func (r *ParagraphRepo) Append(ctx context.Context, tx *gorm.DB, storyID uuid.UUID, start int, paragraphs []string) error {
	if len(paragraphs) == 0 {
		return nil
	}
	rows := make([]Paragraph, len(paragraphs))
	for i, p := range paragraphs {
		rows[i] = Paragraph{StoryID: storyID, Idx: start + i, Body: p}
	}
	if err := tx.WithContext(ctx).CreateInBatches(rows, 200).Error; err != nil {
		return errors.Wrap(err, "append paragraphs")
	}
	return nil
}

// List returns the story's paragraphs in order.
func (r *ParagraphRepo) List(ctx context.Context, storyID uuid.UUID) ([]string, error) {
	var bodies []string
	err := r.db.gorm.WithContext(ctx).Model(&Paragraph{}).
		Where("story_id = ?", storyID).
		Order("idx ASC").
		Pluck("body", &bodies).Error
	if err != nil {
		return nil, errors.Wrap(err, "list paragraphs")
	}
	return bodies, nil
}

type ChoiceRepo struct{ db *DB }

func NewChoiceRepo(db *DB) *ChoiceRepo { return &ChoiceRepo{db: db} }

func (r *ChoiceRepo) Insert(ctx context.Context, tx *gorm.DB, storyID uuid.UUID, afterIdx int, label string) (uuid.UUID, error) {
	rec := ChoiceRecord{ID: uuid.New(), StoryID: storyID, AfterIdx: afterIdx, Label: label, CreatedAt: time.Now().UTC()}
	if err := tx.WithContext(ctx).Create(&rec).Error; err != nil {
		return uuid.Nil, errors.Wrap(err, "insert choice")
	}
	return rec.ID, nil
}
