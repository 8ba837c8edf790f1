package dto

import (
	"encoding/json"
	"time"

	"github.com/yukikurage/teamboard-api/internal/models"
	"github.com/yukikurage/teamboard-api/internal/repository"
	"github.com/yukikurage/teamboard-api/internal/services"
	"github.com/yukikurage/teamboard-api/internal/utils"
)

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ProjectID     uint64             `json:"project_id"`
	ProjectName   string             `json:"project_name"`
	Content       string             `json:"content"`
	EndDate       *time.Time         `json:"end_date"`
	CreatedBy     uint64             `json:"created_by"`
	OwnerName     string             `json:"owner_name,omitempty"`
	RoleInProject models.ProjectRole `json:"role_in_project,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// MemberDTO represents a project member
type MemberDTO struct {
	UserID        uint64             `json:"user_id"`
	Username      string             `json:"username"`
	Email         string             `json:"email"`
	RoleInProject models.ProjectRole `json:"role_in_project"`
	JoinedAt      time.Time          `json:"joined_at"`
}

// ProjectDetailDTO represents detailed project information
type ProjectDetailDTO struct {
	Project ProjectDTO  `json:"project"`
	Members []MemberDTO `json:"members"`
}

// ActivityDTO represents an activity log entry
type ActivityDTO struct {
	LogID      uint64          `json:"log_id"`
	UserID     uint64          `json:"user_id"`
	Username   string          `json:"username"`
	ProjectID  uint64          `json:"project_id"`
	TaskID     *uint64         `json:"task_id"`
	ActionType string          `json:"action_type"`
	Action     string          `json:"action"`
	Details    json.RawMessage `json:"details"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ActivityListResponse represents a page of activity entries
type ActivityListResponse struct {
	Logs       []ActivityDTO            `json:"logs"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	return ProjectDTO{
		ProjectID:   project.ID,
		ProjectName: project.Name,
		Content:     project.Content,
		EndDate:     project.EndDate,
		CreatedBy:   project.CreatedBy,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

func ToProjectSummaryDTO(summary repository.ProjectSummary) ProjectDTO {
	return ProjectDTO{
		ProjectID:     summary.ID,
		ProjectName:   summary.Name,
		Content:       summary.Content,
		EndDate:       summary.EndDate,
		CreatedBy:     summary.CreatedBy,
		OwnerName:     summary.OwnerName,
		RoleInProject: summary.RoleInProject,
		CreatedAt:     summary.CreatedAt,
		UpdatedAt:     summary.UpdatedAt,
	}
}

func ToProjectListDTO(summaries []repository.ProjectSummary) []ProjectDTO {
	projects := make([]ProjectDTO, len(summaries))
	for i, s := range summaries {
		projects[i] = ToProjectSummaryDTO(s)
	}
	return projects
}

func ToMemberDTOs(rows []repository.MemberRow) []MemberDTO {
	members := make([]MemberDTO, len(rows))
	for i, row := range rows {
		members[i] = MemberDTO{
			UserID:        row.UserID,
			Username:      row.Username,
			Email:         row.Email,
			RoleInProject: row.Role,
			JoinedAt:      row.JoinedAt,
		}
	}
	return members
}

func ToProjectDetailDTO(detail services.ProjectDetail) ProjectDetailDTO {
	return ProjectDetailDTO{
		Project: ToProjectSummaryDTO(*detail.Project),
		Members: ToMemberDTOs(detail.Members),
	}
}

func ToActivityListResponse(views []services.ActivityView, params utils.PaginationParams, total int64) ActivityListResponse {
	logs := make([]ActivityDTO, len(views))
	for i, v := range views {
		details := json.RawMessage(v.Details)
		if len(details) == 0 {
			details = json.RawMessage("{}")
		}
		logs[i] = ActivityDTO{
			LogID:      v.ID,
			UserID:     v.UserID,
			Username:   v.Username,
			ProjectID:  v.ProjectID,
			TaskID:     v.TaskID,
			ActionType: v.ActionType,
			Action:     v.Action,
			Details:    details,
			CreatedAt:  v.CreatedAt,
		}
	}
	return ActivityListResponse{
		Logs: logs,
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	}
}
