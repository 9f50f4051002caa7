package policy

import (
	"testing"

	"taskboard/internal/model"
)

func TestUserPolicy(t *testing.T) {
	creator := &model.User{ID: 1, Role: model.RoleUser}
	assignee := &model.User{ID: 2, Role: model.RoleUser}
	outsider := &model.User{ID: 3, Role: model.RoleUser}

	task := &model.Task{
		ID:         10,
		AssignedTo: model.UserRef{ID: assignee.ID},
		CreatedBy:  model.UserRef{ID: creator.ID},
	}

	tests := []struct {
		name   string
		actor  *model.User
		action Action
		want   bool
	}{
		{"creator can view", creator, ActionView, true},
		{"creator can edit", creator, ActionEdit, true},
		{"creator can assign", creator, ActionAssign, true},
		{"creator can delete", creator, ActionDelete, true},
		{"assignee can view", assignee, ActionView, true},
		{"assignee can edit", assignee, ActionEdit, true},
		{"assignee cannot assign", assignee, ActionAssign, false},
		{"assignee cannot delete", assignee, ActionDelete, false},
		{"outsider cannot view", outsider, ActionView, false},
		{"outsider cannot edit", outsider, ActionEdit, false},
		{"outsider cannot assign", outsider, ActionAssign, false},
		{"outsider cannot delete", outsider, ActionDelete, false},
		{"unknown action denied", creator, Action("archive"), false},
	}

	p := UserPolicy{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.CanAccess(tt.actor, task, tt.action); got != tt.want {
				t.Errorf("CanAccess(%d, %s) = %v, want %v", tt.actor.ID, tt.action, got, tt.want)
			}
		})
	}
}

func TestAdminPolicyAllowsEverything(t *testing.T) {
	admin := &model.User{ID: 99, Role: model.RoleAdmin}
	task := &model.Task{
		AssignedTo: model.UserRef{ID: 1},
		CreatedBy:  model.UserRef{ID: 2},
	}

	p := AdminPolicy{}
	for _, action := range []Action{ActionView, ActionEdit, ActionAssign, ActionDelete} {
		if !p.CanAccess(admin, task, action) {
			t.Errorf("admin denied %s", action)
		}
	}
}

func TestForRole(t *testing.T) {
	if _, ok := ForRole(model.RoleAdmin).(AdminPolicy); !ok {
		t.Error("admin role did not map to AdminPolicy")
	}
	if _, ok := ForRole(model.RoleUser).(UserPolicy); !ok {
		t.Error("user role did not map to UserPolicy")
	}
	if _, ok := ForRole("something-else").(UserPolicy); !ok {
		t.Error("unknown role did not fall back to UserPolicy")
	}
}
