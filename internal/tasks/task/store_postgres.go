// Copyright (c) 2026 Tasktrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package task

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/tasktrack/internal/platform/database/schema"
	"github.com/taibuivan/tasktrack/internal/platform/dberr"
	"github.com/taibuivan/tasktrack/internal/platform/postgres"
)

// PostgresRepository implements [Repository] on the tasks database.
type PostgresRepository struct {
	db postgres.DB
}

// NewRepository creates a new PostgreSQL implementation of the Task Store.
func NewRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var taskColumns = schema.Tasks.SelectList()

/*
ListByOwner retrieves all tasks of one owner.

Description: Served by the (userid, createdat DESC) index.
*/
func (repository *PostgresRepository) ListByOwner(context context.Context, ownerID string) ([]*Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE userid = $1 ORDER BY createdat DESC, id DESC`

	rows, err := repository.db.Query(context, query, ownerID)
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_task_repo_list_failed")
	}
	defer rows.Close()

	tasks := make([]*Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "postgres_task_repo_list_scan_failed")
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "postgres_task_repo_list_failed")
	}

	return tasks, nil
}

// FindByIDAndOwner retrieves one task of one owner.
func (repository *PostgresRepository) FindByIDAndOwner(context context.Context, id, ownerID string) (*Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND userid = $2`

	task, err := scanTask(repository.db.QueryRow(context, query, id, ownerID))
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_task_repo_find_failed")
	}
	return task, nil
}

// Create inserts a task. Timestamps are assigned by the database.
func (repository *PostgresRepository) Create(context context.Context, task *Task) error {
	const query = `
		INSERT INTO tasks (id, userid, title, description, completed)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING createdat, updatedat`

	err := repository.db.QueryRow(context, query,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		task.Completed,
	).Scan(&task.CreatedAt, &task.UpdatedAt)

	return dberr.Wrap(err, "postgres_task_repo_create_failed")
}

/*
Update applies a partial update in one statement.

Description: COALESCE keeps the stored value for every NULL parameter, so
absent fields are never written.
*/
func (repository *PostgresRepository) Update(context context.Context, id, ownerID string, input UpdateInput) (*Task, error) {
	query := `
		UPDATE tasks SET
			title       = COALESCE($3, title),
			description = COALESCE($4, description),
			completed   = COALESCE($5, completed),
			updatedat   = now()
		WHERE id = $1 AND userid = $2
		RETURNING ` + taskColumns

	task, err := scanTask(repository.db.QueryRow(context, query,
		id,
		ownerID,
		input.Title,
		input.Description,
		input.Completed,
	))
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_task_repo_update_failed")
	}
	return task, nil
}

// Delete removes one task and returns it as it was.
func (repository *PostgresRepository) Delete(context context.Context, id, ownerID string) (*Task, error) {
	query := `DELETE FROM tasks WHERE id = $1 AND userid = $2 RETURNING ` + taskColumns

	task, err := scanTask(repository.db.QueryRow(context, query, id, ownerID))
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_task_repo_delete_failed")
	}
	return task, nil
}

// DeleteAll empties the tasks table.
func (repository *PostgresRepository) DeleteAll(context context.Context) (int64, error) {
	tag, err := repository.db.Exec(context, `DELETE FROM tasks`)
	if err != nil {
		return 0, dberr.Wrap(err, "postgres_task_repo_delete_all_failed")
	}
	return tag.RowsAffected(), nil
}

func scanTask(row pgx.Row) (*Task, error) {
	task := &Task{}
	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.Completed,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return task, nil
}
