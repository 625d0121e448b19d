package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pixelway/agencysite/models"
)

// ErrNotFound is returned when no comment with the requested id exists.
var ErrNotFound = errors.New("comment not found")

// CommentStore is the persistence contract for comments.
type CommentStore interface {
	// Insert persists a new comment and assigns its id and timestamp.
	// ReplyTo is stored as given; existence of the parent is not checked.
	Insert(ctx context.Context, name, text string, replyTo *string) (*models.Comment, error)
	// ListAll returns every comment newest first.
	ListAll(ctx context.Context) ([]models.Comment, error)
	// IncrementLikes adds one to the comment's like counter as a single
	// statement and returns the updated row.
	IncrementLikes(ctx context.Context, id string) (*models.Comment, error)
	// DeleteCascade removes the comment and its direct replies, replies
	// first, and returns the pre-deletion snapshot of the comment.
	DeleteCascade(ctx context.Context, id string) (*models.Comment, error)
}

type commentStore struct {
	db *gorm.DB
}

// NewCommentStore creates a CommentStore backed by GORM.
func NewCommentStore(db *gorm.DB) CommentStore {
	return &commentStore{db: db}
}

func (s *commentStore) Insert(ctx context.Context, name, text string, replyTo *string) (*models.Comment, error) {
	comment := models.Comment{
		Name:    name,
		Text:    text,
		ReplyTo: replyTo,
	}
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *commentStore) ListAll(ctx context.Context) ([]models.Comment, error) {
	var comments []models.Comment
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *commentStore) IncrementLikes(ctx context.Context, id string) (*models.Comment, error) {
	// likes = likes + 1 in one statement; concurrent likes never lose updates
	res := s.db.WithContext(ctx).Model(&models.Comment{}).
		Where("id = ?", id).
		UpdateColumn("likes", gorm.Expr("likes + 1"))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	var comment models.Comment
	if err := s.db.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func (s *commentStore) DeleteCascade(ctx context.Context, id string) (*models.Comment, error) {
	var snapshot models.Comment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&snapshot, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		// replies before the comment itself
		if err := tx.Where("reply_to = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Comment{}).Error
	})
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}
