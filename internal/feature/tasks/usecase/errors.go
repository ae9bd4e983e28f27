package usecase

import "task_backend/internal/shared/apperror"

// ErrTaskNotFound is returned when no task matches both the id and the caller.
// A task owned by someone else is indistinguishable from a missing one.
var ErrTaskNotFound = apperror.NotFound("Task not found")
