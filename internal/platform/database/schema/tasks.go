// Copyright (c) 2026 Tasktrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

import "strings"

// TasksTable represents the 'tasks' table of the task database.
type TasksTable struct {
	Table       string
	ID          string
	UserID      string
	Title       string
	Description string
	Completed   string
	CreatedAt   string
	UpdatedAt   string
}

// Tasks is the schema definition for the task service's tasks table.
var Tasks = TasksTable{
	Table:       "tasks",
	ID:          "id",
	UserID:      "userid",
	Title:       "title",
	Description: "description",
	Completed:   "completed",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Columns lists every column in scan order.
func (t TasksTable) Columns() []string {
	return []string{t.ID, t.UserID, t.Title, t.Description, t.Completed, t.CreatedAt, t.UpdatedAt}
}

// SelectList joins [TasksTable.Columns] for a SELECT or RETURNING clause.
func (t TasksTable) SelectList() string {
	return strings.Join(t.Columns(), ", ")
}
