package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mkravets/taskboard/internal/models"
)

type TagService struct {
	db *gorm.DB
}

func NewTagService(db *gorm.DB) *TagService {
	return &TagService{db: db}
}

// Create adds a user-defined tag. Tag names are unique across both
// predefined and user-created tags.
func (s *TagService) Create(ctx context.Context, name string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("tag name is required: %w", ErrValidation)
	}

	tag := &models.Tag{Name: name}
	if err := s.db.WithContext(ctx).Create(tag).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("tag %q already exists: %w", name, ErrConflict)
		}
		return nil, storage("create tag", err)
	}
	return tag, nil
}

func (s *TagService) Get(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, notFoundOr("get tag", "tag", id, err)
	}
	return &tag, nil
}

func (s *TagService) List(ctx context.Context, offset, limit int) ([]models.Tag, error) {
	var tags []models.Tag
	if err := window(s.db.WithContext(ctx), offset, limit).Find(&tags).Error; err != nil {
		return nil, storage("list tags", err)
	}
	return tags, nil
}

// Delete removes a user-created tag and its task attachments. The
// predefined tags are canonical and cannot be deleted.
func (s *TagService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tag models.Tag
		if err := tx.First(&tag, id).Error; err != nil {
			return notFoundOr("get tag", "tag", id, err)
		}
		if tag.IsPredefined {
			return fmt.Errorf("tag %q is predefined and cannot be deleted: %w", tag.Name, ErrConflict)
		}
		if err := tx.Where("tag_id = ?", id).Delete(&models.TaskTag{}).Error; err != nil {
			return storage("delete tag attachments", err)
		}
		if err := tx.Delete(&models.Tag{}, id).Error; err != nil {
			return storage("delete tag", err)
		}
		return nil
	})
}
