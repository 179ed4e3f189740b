package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mkravets/taskboard/internal/models"
)

// TaskInput carries the mutable task fields plus the desired owner and
// tag sets. On update the sets are replaced wholesale, matching the
// overwrite semantics of every other field.
type TaskInput struct {
	UserInput     string
	Deadline      *time.Time
	EstimatedTime *int
	Note          *string
	AttachmentURL *string
	Phase         *models.Phase
	ProjectID     uint
	ParentTaskID  *uint
	EventID       *uint
	OwnerIDs      []uint
	TagIDs        []uint
}

// TaskListFilter narrows listings by project and completion state.
type TaskListFilter struct {
	ProjectID   *uint
	IsCompleted *bool
	Offset      int
	Limit       int
}

type TaskService struct {
	db *gorm.DB
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{db: db}
}

// Create persists the task together with all of its owner and tag
// association rows in a single transaction. Any unknown owner or tag id
// fails the whole create; a task never becomes visible with only part
// of its intended associations.
func (s *TaskService) Create(ctx context.Context, in TaskInput) (*models.Task, error) {
	if err := validateTaskInput(in); err != nil {
		return nil, err
	}

	task := &models.Task{
		UserInput:     in.UserInput,
		Deadline:      in.Deadline,
		EstimatedTime: in.EstimatedTime,
		Note:          in.Note,
		AttachmentURL: in.AttachmentURL,
		Phase:         in.Phase,
		ProjectID:     in.ProjectID,
		ParentTaskID:  in.ParentTaskID,
		EventID:       in.EventID,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireExists(tx, &models.Project{}, in.ProjectID, "project"); err != nil {
			return err
		}
		if in.ParentTaskID != nil {
			if err := requireExists(tx, &models.Task{}, *in.ParentTaskID, "parent task"); err != nil {
				return err
			}
		}
		if in.EventID != nil {
			if err := requireExists(tx, &models.Event{}, *in.EventID, "event"); err != nil {
				return err
			}
		}

		owners, err := resolveAssociated[models.Owner](tx, in.OwnerIDs, "owner")
		if err != nil {
			return err
		}
		tags, err := resolveAssociated[models.Tag](tx, in.TagIDs, "tag")
		if err != nil {
			return err
		}

		if err := tx.Create(task).Error; err != nil {
			return storage("create task", err)
		}
		if err := writeAssociations(tx, task.ID, in.OwnerIDs, in.TagIDs); err != nil {
			return err
		}

		task.Owners = owners
		task.Tags = tags
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Get(ctx context.Context, id uint) (*models.Task, error) {
	var task models.Task
	err := s.db.WithContext(ctx).Preload("Owners").Preload("Tags").First(&task, id).Error
	if err != nil {
		return nil, notFoundOr("get task", "task", id, err)
	}
	return &task, nil
}

func (s *TaskService) List(ctx context.Context, f TaskListFilter) ([]models.Task, error) {
	q := s.db.WithContext(ctx).Preload("Owners").Preload("Tags")
	if f.ProjectID != nil {
		q = q.Where("project_id = ?", *f.ProjectID)
	}
	if f.IsCompleted != nil {
		q = q.Where("is_completed = ?", *f.IsCompleted)
	}
	var tasks []models.Task
	if err := window(q, f.Offset, f.Limit).Find(&tasks).Error; err != nil {
		return nil, storage("list tasks", err)
	}
	return tasks, nil
}

// Update replaces every mutable field and both association sets.
// is_completed is untouched; only Complete transitions it.
func (s *TaskService) Update(ctx context.Context, id uint, in TaskInput) (*models.Task, error) {
	if err := validateTaskInput(in); err != nil {
		return nil, err
	}

	var task models.Task
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, id).Error; err != nil {
			return notFoundOr("get task", "task", id, err)
		}
		if err := requireExists(tx, &models.Project{}, in.ProjectID, "project"); err != nil {
			return err
		}
		if in.ParentTaskID != nil {
			if err := checkParent(tx, id, *in.ParentTaskID); err != nil {
				return err
			}
		}
		if in.EventID != nil {
			if err := requireExists(tx, &models.Event{}, *in.EventID, "event"); err != nil {
				return err
			}
		}

		owners, err := resolveAssociated[models.Owner](tx, in.OwnerIDs, "owner")
		if err != nil {
			return err
		}
		tags, err := resolveAssociated[models.Tag](tx, in.TagIDs, "tag")
		if err != nil {
			return err
		}

		task.UserInput = in.UserInput
		task.Deadline = in.Deadline
		task.EstimatedTime = in.EstimatedTime
		task.Note = in.Note
		task.AttachmentURL = in.AttachmentURL
		task.Phase = in.Phase
		task.ProjectID = in.ProjectID
		task.ParentTaskID = in.ParentTaskID
		task.EventID = in.EventID
		task.Owners = nil
		task.Tags = nil

		if err := tx.Omit(clause.Associations).Save(&task).Error; err != nil {
			return storage("update task", err)
		}

		if err := tx.Where("task_id = ?", id).Delete(&models.TaskOwner{}).Error; err != nil {
			return storage("clear task owners", err)
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskTag{}).Error; err != nil {
			return storage("clear task tags", err)
		}
		if err := writeAssociations(tx, id, in.OwnerIDs, in.TagIDs); err != nil {
			return err
		}

		task.Owners = owners
		task.Tags = tags
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Complete marks the task done. Completing an already-completed task is
// not an error; updated_at still refreshes.
func (s *TaskService) Complete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id).
		Update("is_completed", true)
	if res.Error != nil {
		return storage("complete task", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	return nil
}

// Delete removes the task, its association rows and detaches its direct
// subtasks (their parent_task_id becomes NULL) in one transaction.
func (s *TaskService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.First(&task, id).Error; err != nil {
			return notFoundOr("get task", "task", id, err)
		}

		if err := tx.Where("task_id = ?", id).Delete(&models.TaskOwner{}).Error; err != nil {
			return storage("delete task owners", err)
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskTag{}).Error; err != nil {
			return storage("delete task tags", err)
		}
		if err := tx.Model(&models.Task{}).Where("parent_task_id = ?", id).
			Update("parent_task_id", nil).Error; err != nil {
			return storage("detach subtasks", err)
		}
		if err := tx.Delete(&models.Task{}, id).Error; err != nil {
			return storage("delete task", err)
		}
		return nil
	})
}

func validateTaskInput(in TaskInput) error {
	if strings.TrimSpace(in.UserInput) == "" {
		return fmt.Errorf("user_input is required: %w", ErrValidation)
	}
	if in.ProjectID == 0 {
		return fmt.Errorf("project_id is required: %w", ErrValidation)
	}
	if in.Phase != nil && !in.Phase.Valid() {
		return fmt.Errorf("phase %q is not one of pre_event, event, post_event: %w", *in.Phase, ErrValidation)
	}
	return nil
}

// checkParent rejects self-parenting and any assignment that would make
// the task its own ancestor. The walk is bounded so a corrupted chain
// cannot spin forever.
func checkParent(tx *gorm.DB, taskID, parentID uint) error {
	if parentID == taskID {
		return fmt.Errorf("task %d cannot be its own parent: %w", taskID, ErrValidation)
	}
	if err := requireExists(tx, &models.Task{}, parentID, "parent task"); err != nil {
		return err
	}

	const maxDepth = 64
	current := parentID
	for range maxDepth {
		var ancestor models.Task
		if err := tx.Select("id", "parent_task_id").First(&ancestor, current).Error; err != nil {
			return notFoundOr("walk task ancestry", "task", current, err)
		}
		if ancestor.ParentTaskID == nil {
			return nil
		}
		if *ancestor.ParentTaskID == taskID {
			return fmt.Errorf("task %d is an ancestor of task %d, cycle rejected: %w", taskID, parentID, ErrValidation)
		}
		current = *ancestor.ParentTaskID
	}
	return fmt.Errorf("task ancestry deeper than %d, cycle suspected: %w", maxDepth, ErrValidation)
}

// resolveAssociated loads the referenced rows and fails with
// ErrAssociation when any id is unknown.
func resolveAssociated[T any](tx *gorm.DB, ids []uint, entity string) ([]T, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	unique := make([]uint, 0, len(ids))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	var rows []T
	if err := tx.Where("id IN ?", unique).Find(&rows).Error; err != nil {
		return nil, storage("resolve "+entity+"s", err)
	}
	if len(rows) != len(unique) {
		return nil, fmt.Errorf("one or more %s ids do not exist: %w", entity, ErrAssociation)
	}
	return rows, nil
}

func writeAssociations(tx *gorm.DB, taskID uint, ownerIDs, tagIDs []uint) error {
	for _, ownerID := range dedupe(ownerIDs) {
		if err := tx.Create(&models.TaskOwner{TaskID: taskID, OwnerID: ownerID}).Error; err != nil {
			return storage("attach owner", err)
		}
	}
	for _, tagID := range dedupe(tagIDs) {
		if err := tx.Create(&models.TaskTag{TaskID: taskID, TagID: tagID}).Error; err != nil {
			return storage("attach tag", err)
		}
	}
	return nil
}

func dedupe(ids []uint) []uint {
	out := make([]uint, 0, len(ids))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
