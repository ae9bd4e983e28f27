package di

import (
	"gorm.io/gorm"

	taskadapters "task_backend/internal/feature/tasks/adapters"
	taskhandler "task_backend/internal/feature/tasks/transport/handler"
	taskusecase "task_backend/internal/feature/tasks/usecase"
)

// NewTaskHandler wires the task repository and usecase.
func NewTaskHandler(db *gorm.DB, opts ...taskusecase.Option) *taskhandler.TaskHandler {
	return taskhandler.NewTaskHandler(taskusecase.NewTaskUsecase(taskadapters.NewTaskPostgres(db), opts...))
}
