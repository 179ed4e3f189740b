package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mkravets/taskboard/internal/models"
)

// OwnerInput carries the fields for creating an owner.
type OwnerInput struct {
	Name       string
	ExternalID *string
}

type OwnerService struct {
	db *gorm.DB
}

func NewOwnerService(db *gorm.DB) *OwnerService {
	return &OwnerService{db: db}
}

func (s *OwnerService) Create(ctx context.Context, in OwnerInput) (*models.Owner, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("owner name is required: %w", ErrValidation)
	}

	owner := &models.Owner{Name: in.Name, ExternalID: in.ExternalID}
	if err := s.db.WithContext(ctx).Create(owner).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("owner external id is already taken: %w", ErrConflict)
		}
		return nil, storage("create owner", err)
	}
	return owner, nil
}

func (s *OwnerService) Get(ctx context.Context, id uint) (*models.Owner, error) {
	var owner models.Owner
	if err := s.db.WithContext(ctx).First(&owner, id).Error; err != nil {
		return nil, notFoundOr("get owner", "owner", id, err)
	}
	return &owner, nil
}

func (s *OwnerService) List(ctx context.Context, offset, limit int) ([]models.Owner, error) {
	var owners []models.Owner
	if err := window(s.db.WithContext(ctx), offset, limit).Find(&owners).Error; err != nil {
		return nil, storage("list owners", err)
	}
	return owners, nil
}

// Delete removes the owner along with its task assignments.
func (s *OwnerService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owner models.Owner
		if err := tx.First(&owner, id).Error; err != nil {
			return notFoundOr("get owner", "owner", id, err)
		}
		if err := tx.Where("owner_id = ?", id).Delete(&models.TaskOwner{}).Error; err != nil {
			return storage("delete owner assignments", err)
		}
		if err := tx.Delete(&models.Owner{}, id).Error; err != nil {
			return storage("delete owner", err)
		}
		return nil
	})
}
