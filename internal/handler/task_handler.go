package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"todolist/internal/forms"
	"todolist/internal/metrics"
	"todolist/internal/model"
	"todolist/internal/repository"
	"todolist/internal/session"
)

// TaskStore is the slice of the task repository the handlers need.
type TaskStore interface {
	Insert(ctx context.Context, t *model.Task) error
	FindByID(ctx context.Context, id int) (*model.Task, error)
	List(ctx context.Context, category string) ([]model.Task, error)
	Categories(ctx context.Context) ([]string, error)
	Update(ctx context.Context, t *model.Task) error
	Delete(ctx context.Context, id int) error
}

// UserLister populates the assignee selector on the task form.
type UserLister interface {
	List(ctx context.Context) ([]model.User, error)
}

type TaskHandler struct {
	tasks  TaskStore
	users  UserLister
	flash  *session.FlashStore
	logger *zap.Logger
}

func NewTaskHandler(tasks TaskStore, users UserLister, flash *session.FlashStore, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		tasks:  tasks,
		users:  users,
		flash:  flash,
		logger: logger,
	}
}

func currentPrincipal(c *gin.Context) model.Principal {
	if v, ok := c.Get("principal"); ok {
		if p, ok := v.(model.Principal); ok {
			return p
		}
	}
	return model.Anonymous()
}

// Index lists tasks, optionally narrowed to an exact category match,
// along with the distinct categories for the filter UI. Anonymous
// viewers are allowed.
func (h *TaskHandler) Index(c *gin.Context) {
	category := c.Query("category")
	ctx := c.Request.Context()

	tasks, err := h.tasks.List(ctx, category)
	if err != nil {
		h.logger.Error("Failed to list tasks", zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	categories, err := h.tasks.Categories(ctx)
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"Tasks":            tasks,
		"Categories":       categories,
		"SelectedCategory": category,
		"Principal":        currentPrincipal(c),
		"Flashes":          h.flash.Pop(c),
	})
}

// Detail renders a single task. A missing id redirects to the list
// view instead of signalling 404.
func (h *TaskHandler) Detail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	task, err := h.tasks.FindByID(c.Request.Context(), id)
	if err != nil {
		if repository.IsNotFound(err) {
			c.Redirect(http.StatusFound, "/")
			return
		}
		h.logger.Error("Failed to load task", zap.Int("task_id", id), zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.HTML(http.StatusOK, "task_detail.html", gin.H{
		"Task":      task,
		"Principal": currentPrincipal(c),
		"Flashes":   h.flash.Pop(c),
	})
}

func (h *TaskHandler) ShowCreate(c *gin.Context) {
	h.renderTaskForm(c, &forms.TaskForm{}, "/create_task")
}

// Create inserts a new task. Status and due date default to "new" and
// now+24h when left blank. A duplicate title is rejected by the store's
// unique constraint and redisplayed as a field error.
func (h *TaskHandler) Create(c *gin.Context) {
	form := forms.ParseTask(c.Request)
	if !form.Validate() {
		h.renderTaskForm(c, form, "/create_task")
		return
	}

	task := form.Task()
	if err := h.tasks.Insert(c.Request.Context(), task); err != nil {
		if repository.IsUniqueViolation(err) {
			form.Errors = map[string]string{"title": "is already taken"}
			h.renderTaskForm(c, form, "/create_task")
			return
		}
		h.logger.Error("Failed to create task", zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	metrics.IncrementTaskOperation("create")
	c.Redirect(http.StatusFound, "/")
}

func (h *TaskHandler) ShowEdit(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	task, err := h.tasks.FindByID(c.Request.Context(), id)
	if err != nil {
		if repository.IsNotFound(err) {
			c.Redirect(http.StatusFound, "/")
			return
		}
		h.logger.Error("Failed to load task", zap.Int("task_id", id), zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	h.renderTaskForm(c, forms.FromTask(task), editAction(id))
}

// Edit overwrites every mutable field of the task in one transaction
// and redirects to the detail view. A vanished task redirects to the
// list, same as detail and delete.
func (h *TaskHandler) Edit(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	form := forms.ParseTask(c.Request)
	if !form.Validate() {
		h.renderTaskForm(c, form, editAction(id))
		return
	}

	task := form.Task()
	task.ID = id
	if err := h.tasks.Update(c.Request.Context(), task); err != nil {
		if repository.IsNotFound(err) {
			c.Redirect(http.StatusFound, "/")
			return
		}
		if repository.IsUniqueViolation(err) {
			form.Errors = map[string]string{"title": "is already taken"}
			h.renderTaskForm(c, form, editAction(id))
			return
		}
		h.logger.Error("Failed to update task", zap.Int("task_id", id), zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	metrics.IncrementTaskOperation("update")
	c.Redirect(http.StatusFound, "/task/"+strconv.Itoa(id))
}

// Delete removes a task. POST only; a missing id redirects to the list
// view without error.
func (h *TaskHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	ctx := c.Request.Context()
	if _, err := h.tasks.FindByID(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			c.Redirect(http.StatusFound, "/")
			return
		}
		h.logger.Error("Failed to load task", zap.Int("task_id", id), zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	if err := h.tasks.Delete(ctx, id); err != nil {
		h.logger.Error("Failed to delete task", zap.Int("task_id", id), zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	metrics.IncrementTaskOperation("delete")
	c.Redirect(http.StatusFound, "/")
}

func (h *TaskHandler) renderTaskForm(c *gin.Context, form *forms.TaskForm, action string) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list users", zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.HTML(http.StatusOK, "task_form.html", gin.H{
		"Form":      form,
		"Users":     users,
		"Action":    action,
		"Principal": currentPrincipal(c),
		"Flashes":   h.flash.Pop(c),
	})
}

func editAction(id int) string {
	return "/" + strconv.Itoa(id) + "/edit_task"
}
