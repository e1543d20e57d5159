package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Journal is the transcript of one story, bound to its id.
type Journal struct {
	db      *DB
	storyID uuid.UUID
	seed    string
}

// StartJournal creates a new story row and returns its journal.
func StartJournal(ctx context.Context, db *DB, seedText string) (*Journal, error) {
	s, err := NewStoryRepo(db).Create(ctx, seedText)
	if err != nil {
		return nil, err
	}
	return &Journal{db: db, storyID: s.ID, seed: s.SeedText}, nil
}

// ResumeJournal binds the most recent story. It returns ErrNoStory when there is none.
func ResumeJournal(ctx context.Context, db *DB) (*Journal, error) {
	s, err := NewStoryRepo(db).Latest(ctx)
	if err != nil {
		return nil, err
	}
	return &Journal{db: db, storyID: s.ID, seed: s.SeedText}, nil
}

func (j *Journal) StoryID() string { return j.storyID.String() }
func (j *Journal) SeedText() string { return j.seed }

func (j *Journal) Load(ctx context.Context) ([]string, error) {
	return NewParagraphRepo(j.db).List(ctx, j.storyID)
}

// Record stores the choice that led to paragraphs and the paragraphs themselves in one transaction.
// An empty choice label records paragraphs only (the opening beat).
func (j *Journal) Record(ctx context.Context, start int, paragraphs []string, choice string) error {
	return j.db.WithTx(ctx, func(tx *gorm.DB) error {
		if choice != "" {
			if _, err := NewChoiceRepo(j.db).Insert(ctx, tx, j.storyID, start-1, choice); err != nil {
				return err
			}
		}
		return NewParagraphRepo(j.db).Append(ctx, tx, j.storyID, start, paragraphs)
	})
}
