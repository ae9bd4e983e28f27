// Package handler はtasksフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"task_backend/internal/api"
	"task_backend/internal/feature/tasks/domain/entity"
	"task_backend/internal/feature/tasks/usecase"
	"task_backend/internal/platform/http/respond"
	jwtmw "task_backend/internal/platform/jwt"
	"task_backend/internal/shared/apperror"
)

// TaskUsecase はタスク操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type TaskUsecase interface {
	Create(ctx context.Context, userID uuid.UUID, in usecase.TaskInput) (*entity.Task, error)
	List(ctx context.Context, userID uuid.UUID) ([]entity.Task, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*entity.Task, error)
	Update(ctx context.Context, userID, id uuid.UUID, in usecase.TaskInput) (*entity.Task, error)
	Toggle(ctx context.Context, userID, id uuid.UUID) (*entity.Task, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// TaskHandler はタスクのHTTPリクエストを処理します。
type TaskHandler struct {
	uc TaskUsecase
}

// NewTaskHandler は指定されたusecaseでTaskHandlerの新しいインスタンスを生成します。
func NewTaskHandler(uc TaskUsecase) *TaskHandler {
	return &TaskHandler{uc: uc}
}

// Create は POST /tasks を処理します。
func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	in, ok := bindInput(c)
	if !ok {
		return
	}
	task, err := h.uc.Create(c.Request.Context(), userID, in)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, toResponse(task))
}

// List は GET /tasks を処理します。
func (h *TaskHandler) List(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	tasks, err := h.uc.List(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	out := make([]api.Task, 0, len(tasks))
	for i := range tasks {
		out = append(out, toResponse(&tasks[i]))
	}
	c.JSON(http.StatusOK, out)
}

// Get は GET /tasks/:id を処理します。
func (h *TaskHandler) Get(c *gin.Context) {
	userID, id, ok := callerAndID(c)
	if !ok {
		return
	}
	task, err := h.uc.Get(c.Request.Context(), userID, id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(task))
}

// Update は PUT /tasks/:id を処理します。全フィールドを置き換えます。
func (h *TaskHandler) Update(c *gin.Context) {
	userID, id, ok := callerAndID(c)
	if !ok {
		return
	}
	in, ok := bindInput(c)
	if !ok {
		return
	}
	task, err := h.uc.Update(c.Request.Context(), userID, id, in)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(task))
}

// Toggle は PATCH /tasks/:id/toggle を処理します。
func (h *TaskHandler) Toggle(c *gin.Context) {
	userID, id, ok := callerAndID(c)
	if !ok {
		return
	}
	task, err := h.uc.Toggle(c.Request.Context(), userID, id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(task))
}

// Delete は DELETE /tasks/:id を処理します。
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, id, ok := callerAndID(c)
	if !ok {
		return
	}
	if err := h.uc.Delete(c.Request.Context(), userID, id); err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Task deleted"})
}

func caller(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := jwtmw.UserID(c)
	if !ok {
		respond.Error(c, apperror.Auth("Invalid token"))
	}
	return userID, ok
}

// callerAndID は呼び出し元とパスの:idを取り出します。
// UUIDとして解釈できないidは存在しないタスクと同じく404を返します。
func callerAndID(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := caller(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "id", c.Param("id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		respond.Error(c, usecase.ErrTaskNotFound)
		return uuid.Nil, uuid.Nil, false
	}
	return userID, id, true
}

func bindInput(c *gin.Context) (usecase.TaskInput, bool) {
	var req api.TaskInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.InvalidBody(c, err)
		return usecase.TaskInput{}, false
	}
	in := usecase.TaskInput{
		DueDate:   req.DueDate,
		Completed: req.Completed,
	}
	if req.Title != nil {
		in.Title = *req.Title
	}
	if req.Description != nil {
		in.Description = *req.Description
	}
	if req.Priority != nil {
		p := int(*req.Priority)
		in.Priority = &p
	}
	return in, true
}

func toResponse(t *entity.Task) api.Task {
	return api.Task{
		Id:          t.ID,
		UserId:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
