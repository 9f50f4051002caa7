package service

import (
	"context"
	"sort"
	"strings"

	"taskboard/internal/model"
)

// In-memory store fakes backing the service tests.

type fakeUserStore struct {
	nextID int
	users  map[int]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{nextID: 1, users: map[int]*model.User{}}
}

func (s *fakeUserStore) add(u model.User) *model.User {
	u.ID = s.nextID
	s.nextID++
	s.users[u.ID] = &u
	return &u
}

func (s *fakeUserStore) Create(_ context.Context, u *model.User) error {
	u.ID = s.nextID
	s.nextID++
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) FindByID(_ context.Context, id int) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) List(_ context.Context) ([]model.User, error) {
	ids := make([]int, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]model.User, 0, len(ids))
	for _, id := range ids {
		out = append(out, *s.users[id])
	}
	return out, nil
}

type fakeTaskStore struct {
	nextID int
	tasks  map[int]*model.Task
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{nextID: 1, tasks: map[int]*model.Task{}}
}

func (s *fakeTaskStore) Insert(_ context.Context, t *model.Task) error {
	t.ID = s.nextID
	s.nextID++
	cp := *t
	s.tasks[t.ID] = &cp
	return nil
}

func (s *fakeTaskStore) FindByID(_ context.Context, id int) (*model.Task, error) {
	t, ok := s.tasks[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (s *fakeTaskStore) Update(_ context.Context, t *model.Task) error {
	cp := *t
	s.tasks[t.ID] = &cp
	return nil
}

func (s *fakeTaskStore) Delete(_ context.Context, id int) error {
	delete(s.tasks, id)
	return nil
}

func matches(t *model.Task, f model.TaskFilter) bool {
	if f.ScopeUserID != 0 && t.AssignedTo.ID != f.ScopeUserID && t.CreatedBy.ID != f.ScopeUserID {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.AssignedTo != 0 && t.AssignedTo.ID != f.AssignedTo {
		return false
	}
	if f.CreatedBy != 0 && t.CreatedBy.ID != f.CreatedBy {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(t.Title), needle) &&
			!strings.Contains(strings.ToLower(t.Description), needle) {
			return false
		}
	}
	return true
}

func (s *fakeTaskStore) List(_ context.Context, f model.TaskFilter) ([]model.Task, int, error) {
	ids := make([]int, 0, len(s.tasks))
	for id := range s.tasks {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	all := []model.Task{}
	for _, id := range ids {
		if matches(s.tasks[id], f) {
			all = append(all, *s.tasks[id])
		}
	}

	total := len(all)
	start := (f.Page - 1) * f.Limit
	if start > total {
		start = total
	}
	end := start + f.Limit
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (s *fakeTaskStore) Stats(_ context.Context, scopeUserID int) (*model.TaskStats, error) {
	stats := &model.TaskStats{
		ByStatus:   map[string]int{},
		ByPriority: map[string]int{},
	}
	for _, t := range s.tasks {
		if !matches(t, model.TaskFilter{ScopeUserID: scopeUserID}) {
			continue
		}
		stats.ByStatus[t.Status]++
		stats.ByPriority[t.Priority]++
	}
	return stats, nil
}

type fakePublisher struct {
	events []string
}

func (p *fakePublisher) Publish(routingKey string, _ any) error {
	p.events = append(p.events, routingKey)
	return nil
}

type fakeStatsCache struct {
	entries     map[int]*model.TaskStats
	invalidated []int
}

func newFakeStatsCache() *fakeStatsCache {
	return &fakeStatsCache{entries: map[int]*model.TaskStats{}}
}

func (c *fakeStatsCache) Get(_ context.Context, scope int) (*model.TaskStats, bool) {
	s, ok := c.entries[scope]
	return s, ok
}

func (c *fakeStatsCache) Set(_ context.Context, scope int, stats *model.TaskStats) {
	c.entries[scope] = stats
}

func (c *fakeStatsCache) Invalidate(_ context.Context, scopes ...int) {
	c.invalidated = append(c.invalidated, scopes...)
	for _, scope := range scopes {
		delete(c.entries, scope)
	}
}
