package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yukikurage/teamboard-api/internal/activity"
	"github.com/yukikurage/teamboard-api/internal/repository"
	"github.com/yukikurage/teamboard-api/internal/utils"
)

type ActivityService struct {
	store *repository.Store
}

func NewActivityService(store *repository.Store) *ActivityService {
	return &ActivityService{store: store}
}

// ActivityView is a stored entry with its decoded payload and display label.
type ActivityView struct {
	repository.ActivityRow
	Action  string
	Payload activity.Payload
}

// ListActivity returns a page of a project's activity log, newest first.
func (s *ActivityService) ListActivity(ctx context.Context, projectID uint64, params utils.PaginationParams) ([]ActivityView, int64, error) {
	store := s.store.WithContext(ctx)
	if err := findProject(store, projectID); err != nil {
		return nil, 0, err
	}

	rows, total, err := store.Activity.ListByProject(projectID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list activity: %w", err)
	}

	views := make([]ActivityView, len(rows))
	for i, row := range rows {
		kind := activity.Kind(row.ActionType)
		views[i] = ActivityView{ActivityRow: row, Action: kind.Label()}

		payload, err := activity.Decode(kind, row.Details)
		if err != nil {
			slog.WarnContext(ctx, "activity entry not decoded", "id", row.ID, "error", err)
			continue
		}
		views[i].Payload = payload
	}
	return views, total, nil
}
