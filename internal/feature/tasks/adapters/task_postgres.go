// Package adapters はtasksフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"task_backend/internal/feature/tasks/domain/entity"
	"task_backend/internal/feature/tasks/usecase"
)

// taskPostgres はTaskRepositoryインターフェースのGORM実装です。
// すべてのクエリは id と user_id の両方で絞り込みます。
type taskPostgres struct {
	db *gorm.DB
}

var _ usecase.TaskRepository = (*taskPostgres)(nil)

// NewTaskPostgres は指定されたgorm.DB接続でtaskPostgresの新しいインスタンスを生成します。
func NewTaskPostgres(db *gorm.DB) *taskPostgres {
	return &taskPostgres{db: db}
}

func (r *taskPostgres) owned(ctx context.Context, id, userID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&entity.Task{}).Where("id = ? AND user_id = ?", id, userID)
}

// Create はタスクを追加します。
func (r *taskPostgres) Create(ctx context.Context, t *entity.Task) error {
	if t == nil {
		return errors.New("nil task")
	}
	return r.db.WithContext(ctx).Create(t).Error
}

// ListByUser は所有者のタスクを新しい順に返します。
func (r *taskPostgres) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Task, error) {
	tasks := []entity.Task{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindByID は所有者のタスクを1件取得します。
func (r *taskPostgres) FindByID(ctx context.Context, id, userID uuid.UUID) (*entity.Task, error) {
	var t entity.Task
	if err := r.owned(ctx, id, userID).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrTaskNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Update は可変フィールドを書き換えます。id、user_id、created_at は対象外です。
func (r *taskPostgres) Update(ctx context.Context, t *entity.Task) error {
	if t == nil {
		return errors.New("nil task")
	}
	// mapで渡してゼロ値（false、空文字、NULL）も書き込む
	res := r.owned(ctx, t.ID, t.UserID).Updates(map[string]any{
		"title":       t.Title,
		"description": t.Description,
		"completed":   t.Completed,
		"priority":    t.Priority,
		"due_date":    t.DueDate,
		"updated_at":  t.UpdatedAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrTaskNotFound
	}
	return nil
}

// ToggleCompleted は1つのUPDATE文でcompletedを反転し、更新後の行を読み直します。
func (r *taskPostgres) ToggleCompleted(ctx context.Context, id, userID uuid.UUID, updatedAt time.Time) (*entity.Task, error) {
	res := r.owned(ctx, id, userID).Updates(map[string]any{
		"completed":  gorm.Expr("NOT completed"),
		"updated_at": updatedAt,
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, usecase.ErrTaskNotFound
	}
	return r.FindByID(ctx, id, userID)
}

// Delete はタスクを削除します。
func (r *taskPostgres) Delete(ctx context.Context, id, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&entity.Task{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrTaskNotFound
	}
	return nil
}
