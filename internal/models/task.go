package model

import (
	"time"
)

// Task is a single to-do item. ID and CreatedAt are assigned by the store
// layer on insert and never change afterwards.
type Task struct {
	ID          string    `gorm:"primaryKey;size:24" json:"id"`
	Title       string    `gorm:"size:100;not null" json:"title"`
	Description *string   `gorm:"size:500" json:"description"`
	Completed   bool      `gorm:"not null;default:false;index" json:"completed"`
	CreatedAt   time.Time `gorm:"not null" json:"createdAt"`
}

// TaskChanges holds a partial update. Nil fields are left untouched.
type TaskChanges struct {
	Title       *string
	Description *string
	Completed   *bool
}

func (c TaskChanges) IsEmpty() bool {
	return c.Title == nil && c.Description == nil && c.Completed == nil
}

// Columns returns the changed fields keyed by column name.
func (c TaskChanges) Columns() map[string]interface{} {
	cols := make(map[string]interface{}, 3)
	if c.Title != nil {
		cols["title"] = *c.Title
	}
	if c.Description != nil {
		cols["description"] = *c.Description
	}
	if c.Completed != nil {
		cols["completed"] = *c.Completed
	}
	return cols
}

// TaskFilter narrows a listing. A nil Completed matches every task.
type TaskFilter struct {
	Completed *bool
}
