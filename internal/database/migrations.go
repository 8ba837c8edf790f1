package database

import (
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"
)

type compositeIndex struct {
	table   string
	name    string
	columns []string
}

// Composite indexes backing the list queries. Single-column indexes live on the model tags.
var compositeIndexes = []compositeIndex{
	{"tasks", "idx_tasks_project_created", []string{"project_id", "created_at"}},
	{"tasks", "idx_tasks_status_due", []string{"status", "due_date"}},
	{"project_members", "idx_project_members_user_role", []string{"user_id", "role"}},
	{"activity_logs", "idx_activity_logs_project_created", []string{"project_id", "created_at"}},
	{"comments", "idx_comments_task_created", []string{"task_id", "created_at"}},
}

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB) error {
	migrator := db.Migrator()

	for _, idx := range compositeIndexes {
		if migrator.HasIndex(idx.table, idx.name) {
			slog.Debug("index already exists, skipping", "index", idx.name)
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, strings.Join(idx.columns, ", "))
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		slog.Info("created index", "index", idx.name, "table", idx.table)
	}

	return nil
}
