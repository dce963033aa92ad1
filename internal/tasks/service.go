package tasks

import (
	"context"
	"time"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the creation-time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) List(ctx context.Context) ([]Task, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []Task{}
	}
	return list, nil
}

func (s *Service) Create(ctx context.Context, in Input) (Task, error) {
	t := NewTask(in, s.now())
	if err := Validate(t).Err(); err != nil {
		return Task{}, err
	}
	return s.repo.Create(ctx, t)
}

// Update merges in over the stored task and validates the merged record
// before writing it back. Omitted fields keep their stored values.
func (s *Service) Update(ctx context.Context, id string, in Input) (Task, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return Task{}, err
	}

	merged := in.ApplyTo(current)
	if err := Validate(merged).Err(); err != nil {
		return Task{}, err
	}
	return s.repo.Replace(ctx, merged)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Toggle(ctx context.Context, id string) (Task, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return Task{}, err
	}

	current.Completed = !current.Completed
	return s.repo.Replace(ctx, current)
}
