package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"todolist/internal/db"
	"todolist/internal/model"
)

type TaskRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTaskRepository(db *pgxpool.Pool, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{db: db, logger: logger}
}

// Insert creates a task and fills in the generated id. A zero UserID is
// stored as NULL, matching the nullable owner column.
func (r *TaskRepository) Insert(ctx context.Context, t *model.Task) error {
	query := `
        INSERT INTO tasks (title, description, category, due_date, status, attachment, user_id)
        VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, 0))
        RETURNING id
    `
	err := r.db.QueryRow(ctx, query,
		t.Title,
		t.Description,
		t.Category,
		t.DueDate,
		t.Status,
		t.Attachment,
		t.UserID,
	).Scan(&t.ID)
	if err != nil {
		r.logger.Error("Failed to insert task",
			zap.Error(err),
			zap.String("title", t.Title),
		)
		return err
	}
	r.logger.Info("Task inserted",
		zap.Int("task_id", t.ID),
		zap.String("category", t.Category),
	)
	return nil
}

// FindByID returns the task with the given id.
func (r *TaskRepository) FindByID(ctx context.Context, id int) (*model.Task, error) {
	query := `
        SELECT id, title, description, category, due_date, status, attachment, COALESCE(user_id, 0)
        FROM tasks
        WHERE id = $1
    `
	var t model.Task
	err := r.db.QueryRow(ctx, query, id).Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Category,
		&t.DueDate,
		&t.Status,
		&t.Attachment,
		&t.UserID,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns all tasks, or only those in the given category when it
// is non-empty. The match is exact and case-sensitive.
func (r *TaskRepository) List(ctx context.Context, category string) ([]model.Task, error) {
	query := `
        SELECT id, title, description, category, due_date, status, attachment, COALESCE(user_id, 0)
        FROM tasks
        WHERE $1 = '' OR category = $1
        ORDER BY id
    `
	rows, err := r.db.Query(ctx, query, category)
	if err != nil {
		r.logger.Error("Failed to query tasks",
			zap.Error(err),
			zap.String("category", category),
		)
		return nil, err
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(
			&t.ID,
			&t.Title,
			&t.Description,
			&t.Category,
			&t.DueDate,
			&t.Status,
			&t.Attachment,
			&t.UserID,
		); err != nil {
			r.logger.Error("Failed to scan task row", zap.Error(err))
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Categories returns the distinct set of categories across all tasks.
func (r *TaskRepository) Categories(ctx context.Context) ([]string, error) {
	query := `
        SELECT DISTINCT category
        FROM tasks
        ORDER BY category
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query categories", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// Update overwrites every mutable field of the task in one transaction,
// so a failure leaves the prior row untouched.
func (r *TaskRepository) Update(ctx context.Context, t *model.Task) error {
	query := `
        UPDATE tasks
        SET title = $2,
            description = $3,
            category = $4,
            due_date = $5,
            status = $6,
            attachment = $7,
            user_id = NULLIF($8, 0)
        WHERE id = $1
    `
	err := db.WithinTx(ctx, r.db, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx, query,
			t.ID,
			t.Title,
			t.Description,
			t.Category,
			t.DueDate,
			t.Status,
			t.Attachment,
			t.UserID,
		)
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to update task",
			zap.Error(err),
			zap.Int("task_id", t.ID),
		)
		return err
	}
	r.logger.Info("Task updated", zap.Int("task_id", t.ID))
	return nil
}

// Delete removes the task. Deleting an id that no longer exists is not
// an error; the handler redirects either way.
func (r *TaskRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM tasks WHERE id = $1`
	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete task",
			zap.Error(err),
			zap.Int("task_id", id),
		)
		return err
	}
	r.logger.Info("Task deleted",
		zap.Int("task_id", id),
		zap.Int64("rows_affected", result.RowsAffected()),
	)
	return nil
}
