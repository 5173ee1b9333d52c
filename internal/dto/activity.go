package dto

import (
	"time"

	"github.com/glmzsby/branch-points-api/internal/models"
)

// ActivityDTO represents an activity in list responses.
type ActivityDTO struct {
	ID              uint64                `json:"id"`
	Title           string                `json:"title"`
	Description     string                `json:"description"`
	Points          int                   `json:"points"`
	StartTime       time.Time             `json:"start_time"`
	EndTime         time.Time             `json:"end_time"`
	Location        string                `json:"location"`
	Status          models.ActivityStatus `json:"status"`
	Applicant       string                `json:"applicant"`
	MainResponsible string                `json:"main_responsible"`
	SubResponsibles []string              `json:"sub_responsibles"`
	Participants    []string              `json:"participants"`
	IsParticipant   bool                  `json:"is_participant"`
	IsApplicant     bool                  `json:"is_applicant"`
	CreatedAt       time.Time             `json:"created_at"`
}

// ToActivityDTO converts an activity with preloaded relations, flagging the
// requesting user's relationship to it.
func ToActivityDTO(activity models.Activity, requesterID uint64) ActivityDTO {
	subs := make([]string, len(activity.SubResponsibles))
	for i, sub := range activity.SubResponsibles {
		subs[i] = sub.User.Name
	}

	participants := make([]string, len(activity.Participants))
	isParticipant := false
	for i, p := range activity.Participants {
		participants[i] = p.User.Name
		if p.UserID == requesterID {
			isParticipant = true
		}
	}

	return ActivityDTO{
		ID:              activity.ID,
		Title:           activity.Title,
		Description:     activity.Description,
		Points:          activity.Points,
		StartTime:       activity.StartTime,
		EndTime:         activity.EndTime,
		Location:        activity.Location,
		Status:          activity.Status,
		Applicant:       activity.Applicant.Name,
		MainResponsible: activity.MainResponsible.Name,
		SubResponsibles: subs,
		Participants:    participants,
		IsParticipant:   isParticipant,
		IsApplicant:     activity.ApplicantID == requesterID,
		CreatedAt:       activity.CreatedAt,
	}
}

// PendingActivityDTO is one row of the reviewer queue.
type PendingActivityDTO struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Points      int       `json:"points"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Applicant   string    `json:"applicant"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToPendingActivityDTO converts a pending activity for the reviewer queue.
func ToPendingActivityDTO(activity models.Activity) PendingActivityDTO {
	return PendingActivityDTO{
		ID:          activity.ID,
		Title:       activity.Title,
		Description: activity.Description,
		Points:      activity.Points,
		StartTime:   activity.StartTime,
		EndTime:     activity.EndTime,
		Applicant:   activity.Applicant.Name,
		CreatedAt:   activity.CreatedAt,
	}
}
