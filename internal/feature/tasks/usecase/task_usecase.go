// Package usecase はtasksフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"task_backend/internal/feature/tasks/domain/entity"
	"task_backend/internal/shared/apperror"
	"task_backend/internal/shared/validation"
)

// TaskRepository はタスクの永続化層を抽象化します。
// すべての操作は (id, userID) の組で行を特定し、他ユーザーのタスクには触れません。
type TaskRepository interface {
	// Create は新しいタスクを保存します。
	Create(ctx context.Context, task *entity.Task) error

	// ListByUser は所有者のタスクを created_at の降順で返します。同時刻の場合は id 順です。
	ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Task, error)

	// FindByID はタスクを取得します。存在しない場合はErrTaskNotFoundを返します。
	FindByID(ctx context.Context, id, userID uuid.UUID) (*entity.Task, error)

	// Update は可変フィールドとUpdatedAtを書き換えます。該当行がない場合はErrTaskNotFoundを返します。
	Update(ctx context.Context, task *entity.Task) error

	// ToggleCompleted はcompletedを反転し、更新後のタスクを返します。
	ToggleCompleted(ctx context.Context, id, userID uuid.UUID, updatedAt time.Time) (*entity.Task, error)

	// Delete はタスクを削除します。該当行がない場合はErrTaskNotFoundを返します。
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// TaskInput carries the client-settable fields for Create and Update.
// Update replaces every field, so omitted optional fields fall back to their defaults.
type TaskInput struct {
	Title       string     `json:"title" validate:"required,max=255"`
	Description string     `json:"description"`
	Priority    *int       `json:"priority" validate:"omitnil,oneof=1 2 3"`
	DueDate     *time.Time `json:"dueDate"`
	Completed   *bool      `json:"completed"`
}

// normalize trims text fields and validates the result.
func (in *TaskInput) normalize() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	return validation.Struct(in)
}

func (in *TaskInput) priority() int {
	if in.Priority == nil {
		return entity.DefaultPriority
	}
	return *in.Priority
}

func (in *TaskInput) completed() bool {
	return in.Completed != nil && *in.Completed
}

func (in *TaskInput) dueDate() *time.Time {
	if in.DueDate == nil {
		return nil
	}
	d := in.DueDate.UTC().Truncate(time.Microsecond)
	return &d
}

// taskUsecase implements the task operations, always scoped to one owner.
type taskUsecase struct {
	tasks TaskRepository
	now   func() time.Time
	newID func() uuid.UUID
}

// Option configures a taskUsecase.
type Option func(*taskUsecase)

// WithClock overrides the time source for CreatedAt and UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(u *taskUsecase) { u.now = now }
}

// WithIDGenerator overrides how task ids are generated.
func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(u *taskUsecase) { u.newID = newID }
}

// NewTaskUsecase はtaskUsecaseの新しいインスタンスを生成します。
func NewTaskUsecase(tasks TaskRepository, opts ...Option) *taskUsecase {
	u := &taskUsecase{
		tasks: tasks,
		now:   time.Now,
		newID: uuid.New,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// timestamp はTIMESTAMPTZの精度（マイクロ秒）に揃えた現在時刻を返します。
func (u *taskUsecase) timestamp() time.Time {
	return u.now().UTC().Truncate(time.Microsecond)
}

// Create はタスクを作成します。priorityの既定値は3、completedの既定値はfalseです。
func (u *taskUsecase) Create(ctx context.Context, userID uuid.UUID, in TaskInput) (*entity.Task, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	now := u.timestamp()
	task := &entity.Task{
		ID:          u.newID(),
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Completed:   in.completed(),
		Priority:    in.priority(),
		DueDate:     in.dueDate(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := u.tasks.Create(ctx, task); err != nil {
		return nil, apperror.Internal("failed to create task", err)
	}
	return task, nil
}

// List は呼び出し元のタスクを新しい順に返します。タスクがない場合は空スライスです。
func (u *taskUsecase) List(ctx context.Context, userID uuid.UUID) ([]entity.Task, error) {
	tasks, err := u.tasks.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Internal("failed to list tasks", err)
	}
	if tasks == nil {
		tasks = []entity.Task{}
	}
	return tasks, nil
}

// Get は呼び出し元が所有するタスクを1件返します。
func (u *taskUsecase) Get(ctx context.Context, userID, id uuid.UUID) (*entity.Task, error) {
	task, err := u.tasks.FindByID(ctx, id, userID)
	if err != nil {
		return nil, mapRepoErr("failed to get task", err)
	}
	return task, nil
}

// Update はタスクの全フィールドを置き換えます。id、所有者、CreatedAtは変わりません。
func (u *taskUsecase) Update(ctx context.Context, userID, id uuid.UUID, in TaskInput) (*entity.Task, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	task, err := u.tasks.FindByID(ctx, id, userID)
	if err != nil {
		return nil, mapRepoErr("failed to load task", err)
	}

	task.Title = in.Title
	task.Description = in.Description
	task.Completed = in.completed()
	task.Priority = in.priority()
	task.DueDate = in.dueDate()
	task.UpdatedAt = u.timestamp()

	if err := u.tasks.Update(ctx, task); err != nil {
		return nil, mapRepoErr("failed to update task", err)
	}
	return task, nil
}

// Toggle はcompletedを反転します。
func (u *taskUsecase) Toggle(ctx context.Context, userID, id uuid.UUID) (*entity.Task, error) {
	task, err := u.tasks.ToggleCompleted(ctx, id, userID, u.timestamp())
	if err != nil {
		return nil, mapRepoErr("failed to toggle task", err)
	}
	return task, nil
}

// Delete はタスクを削除します。
func (u *taskUsecase) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := u.tasks.Delete(ctx, id, userID); err != nil {
		return mapRepoErr("failed to delete task", err)
	}
	return nil
}

func mapRepoErr(msg string, err error) error {
	if errors.Is(err, ErrTaskNotFound) {
		return ErrTaskNotFound
	}
	return apperror.Internal(msg, err)
}
