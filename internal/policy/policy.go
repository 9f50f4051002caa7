package policy

import "taskboard/internal/model"

type Action string

const (
	ActionView   Action = "view"
	ActionEdit   Action = "edit"
	ActionAssign Action = "assign"
	ActionDelete Action = "delete"
)

// Policy decides whether an actor may perform an action on a task.
// Implementations must be pure: no side effects, deterministic for
// a given (actor, task, action) triple.
type Policy interface {
	CanAccess(actor *model.User, task *model.Task, action Action) bool
}

// AdminPolicy permits every action.
type AdminPolicy struct{}

func (AdminPolicy) CanAccess(*model.User, *model.Task, Action) bool {
	return true
}

// UserPolicy permits view/edit to the assignee or creator, and
// assign/delete to the creator only.
type UserPolicy struct{}

func (UserPolicy) CanAccess(actor *model.User, task *model.Task, action Action) bool {
	switch action {
	case ActionView, ActionEdit:
		return actor.ID == task.AssignedTo.ID || actor.ID == task.CreatedBy.ID
	case ActionAssign, ActionDelete:
		return actor.ID == task.CreatedBy.ID
	}
	return false
}

// ForRole picks the policy variant for a role. Unknown roles fall
// back to the restrictive user policy.
func ForRole(role string) Policy {
	if role == model.RoleAdmin {
		return AdminPolicy{}
	}
	return UserPolicy{}
}
