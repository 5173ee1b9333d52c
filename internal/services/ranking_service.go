package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/glmzsby/branch-points-api/internal/repository"
)

type RankingPeriod string

const (
	PeriodTotal RankingPeriod = "total"
	PeriodWeek  RankingPeriod = "week"
	PeriodMonth RankingPeriod = "month"
)

var ErrInvalidPeriod = errors.New("period must be total, week or month")

// RankingEntry is one leaderboard row.
type RankingEntry struct {
	UserID uint64
	Name   string
	Points int
}

// RankingService builds the leaderboards.
type RankingService struct {
	userRepo   repository.UserRepository
	pointsRepo repository.PointsRepository
}

// NewRankingService creates a new RankingService.
func NewRankingService(userRepo repository.UserRepository, pointsRepo repository.PointsRepository) *RankingService {
	return &RankingService{
		userRepo:   userRepo,
		pointsRepo: pointsRepo,
	}
}

// PeriodRanking returns the leaderboard for a period. "total" ranks live
// balances; "week" and "month" rank the sum of approved records created in
// the trailing 7/30 days, with users lacking records at 0.
func (s *RankingService) PeriodRanking(period RankingPeriod) ([]RankingEntry, error) {
	switch period {
	case PeriodTotal:
		users, err := s.userRepo.ListByPointsDesc()
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}

		entries := make([]RankingEntry, len(users))
		for i, user := range users {
			entries[i] = RankingEntry{UserID: user.ID, Name: user.Name, Points: user.Points}
		}
		return entries, nil

	case PeriodWeek, PeriodMonth:
		days := 7
		if period == PeriodMonth {
			days = 30
		}
		since := time.Now().AddDate(0, 0, -days)

		sums, err := s.pointsRepo.SumApprovedSince(since)
		if err != nil {
			return nil, fmt.Errorf("failed to sum period points: %w", err)
		}

		users, err := s.userRepo.ListByPointsDesc()
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}

		entries := make([]RankingEntry, len(users))
		for i, user := range users {
			entries[i] = RankingEntry{UserID: user.ID, Name: user.Name, Points: sums[user.ID]}
		}

		// Descending by windowed sum; tie order among equals is unspecified.
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Points > entries[j].Points
		})
		return entries, nil

	default:
		return nil, ErrInvalidPeriod
	}
}

// CompetitionRanks assigns competition ranks to already-sorted entries: equal
// points share a rank, the next distinct value takes its 1-based position.
func CompetitionRanks(entries []RankingEntry) []int {
	ranks := make([]int, len(entries))
	currentRank := 0
	var currentPoints int
	for i, e := range entries {
		if i == 0 || e.Points != currentPoints {
			currentRank = i + 1
			currentPoints = e.Points
		}
		ranks[i] = currentRank
	}
	return ranks
}
