package handlers

import (
	"context"
	"sort"
	"sync"
	"time"

	"tempo/internal/domain"
	"tempo/internal/repository"
)

// fakeTaskStore mirrors the repository semantics in memory, owner scoping
// included.
type fakeTaskStore struct {
	mu     sync.Mutex
	nextID int64
	tasks  map[int64]*domain.Task
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{nextID: 1, tasks: make(map[int64]*domain.Task)}
}

func cloneTask(t *domain.Task) *domain.Task {
	out := *t
	if t.TimeSlot != nil {
		slot := *t.TimeSlot
		out.TimeSlot = &slot
	}
	return &out
}

func (s *fakeTaskStore) List(_ context.Context, userID int64, date time.Time) ([]*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res []*domain.Task
	for _, t := range s.tasks {
		if t.UserID == userID && t.Date.Format("2006-01-02") == date.Format("2006-01-02") {
			res = append(res, cloneTask(t))
		}
	}
	sort.Slice(res, func(i, j int) bool {
		a, b := res[i], res[j]
		if a.TimeSlot != nil && b.TimeSlot != nil && *a.TimeSlot != *b.TimeSlot {
			return *a.TimeSlot < *b.TimeSlot
		}
		if (a.TimeSlot != nil) != (b.TimeSlot != nil) {
			return a.TimeSlot != nil
		}
		return a.ID < b.ID
	})
	return res, nil
}

func (s *fakeTaskStore) Get(_ context.Context, userID, id int64) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok || t.UserID != userID {
		return nil, repository.ErrTaskNotFound
	}
	return cloneTask(t), nil
}

func (s *fakeTaskStore) Create(_ context.Context, t *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t.ID = s.nextID
	s.nextID++
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	s.tasks[t.ID] = cloneTask(t)
	return nil
}

func (s *fakeTaskStore) Update(_ context.Context, userID, id int64, in *domain.Task) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok || t.UserID != userID {
		return nil, repository.ErrTaskNotFound
	}
	t.Title = in.Title
	t.Description = in.Description
	t.Date = in.Date
	t.TimeSlot = in.TimeSlot
	t.Duration = in.Duration
	t.Priority = in.Priority
	t.Category = in.Category
	t.UpdatedAt = time.Now()
	return cloneTask(t), nil
}

func (s *fakeTaskStore) Toggle(_ context.Context, userID, id int64) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok || t.UserID != userID {
		return nil, repository.ErrTaskNotFound
	}
	t.Completed = !t.Completed
	t.UpdatedAt = time.Now()
	return cloneTask(t), nil
}

func (s *fakeTaskStore) Delete(_ context.Context, userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.tasks[id]; ok && t.UserID == userID {
		delete(s.tasks, id)
	}
	return nil
}

type fakeUserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{nextID: 1, users: make(map[int64]*domain.User)}
}

func (s *fakeUserStore) GetByID(_ context.Context, id int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		out := *u
		return &out, nil
	}
	return nil, repository.ErrUserNotFound
}

func (s *fakeUserStore) GetByGoogleID(_ context.Context, googleID string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.GoogleID == googleID {
			out := *u
			return &out, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *fakeUserStore) Create(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = s.nextID
	s.nextID++
	u.CreatedAt = time.Now()
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *fakeUserStore) UpdateProfile(_ context.Context, id int64, name, picture string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		u.Name = name
		u.Picture = picture
	}
	return nil
}
