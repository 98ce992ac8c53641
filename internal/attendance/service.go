package attendance

import (
	"context"

	"shawedgym/internal/apperror"
	"shawedgym/internal/logger"
	"shawedgym/internal/member"
)

// Members is satisfied by member.Service.
type Members interface {
	GetMember(ctx context.Context, gymID, id int) (*member.Member, error)
}

type Service interface {
	CheckIn(ctx context.Context, gymID, memberID, recordedBy int) (*CheckIn, error)
	List(ctx context.Context, gymID int, f ListFilter) ([]CheckIn, error)
}

type service struct {
	repo    Repository
	members Members
}

func NewService(repo Repository, members Members) Service {
	return &service{
		repo:    repo,
		members: members,
	}
}

// CheckIn records a visit. Only active members may check in.
func (s *service) CheckIn(ctx context.Context, gymID, memberID, recordedBy int) (*CheckIn, error) {
	m, err := s.members.GetMember(ctx, gymID, memberID)
	if err != nil {
		return nil, err
	}
	if m.Status != member.StatusActive {
		return nil, apperror.Conflict("attendance.checkin", "member is "+string(m.Status))
	}

	ci, err := s.repo.Create(ctx, gymID, memberID, recordedBy)
	if err != nil {
		return nil, err
	}

	logger.Debug("member checked in", "gym_id", gymID, "member_id", memberID)
	return ci, nil
}

func (s *service) List(ctx context.Context, gymID int, f ListFilter) ([]CheckIn, error) {
	return s.repo.List(ctx, gymID, f)
}
