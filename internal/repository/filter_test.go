package repository

import (
	"strings"
	"testing"

	"taskboard/internal/model"
)

func TestBuildFilterEmpty(t *testing.T) {
	where, args := buildFilter(model.TaskFilter{})
	if where != "" {
		t.Errorf("where = %q, want empty", where)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want none", args)
	}
}

func TestBuildFilterScopeComesFirst(t *testing.T) {
	where, args := buildFilter(model.TaskFilter{ScopeUserID: 7, Status: model.StatusTodo})

	if !strings.HasPrefix(where, "WHERE (t.assigned_to = $1 OR t.created_by = $1)") {
		t.Errorf("scope condition not first: %q", where)
	}
	if !strings.Contains(where, "t.status = $2") {
		t.Errorf("missing status condition: %q", where)
	}
	if len(args) != 2 || args[0] != 7 || args[1] != model.StatusTodo {
		t.Errorf("args = %v", args)
	}
}

func TestBuildFilterSearchCombinesWithScope(t *testing.T) {
	where, args := buildFilter(model.TaskFilter{ScopeUserID: 7, Search: "spec"})

	if !strings.Contains(where, "AND (t.title ILIKE $2 OR t.description ILIKE $2)") {
		t.Errorf("search not ANDed with scope: %q", where)
	}
	if args[1] != "%spec%" {
		t.Errorf("search arg = %v, want %%spec%%", args[1])
	}
}

func TestBuildFilterEscapesSearchWildcards(t *testing.T) {
	tests := []struct {
		search string
		want   string
	}{
		{"100%", `%100\%%`},
		{"snake_case", `%snake\_case%`},
		{`back\slash`, `%back\\slash%`},
	}

	for _, tt := range tests {
		_, args := buildFilter(model.TaskFilter{Search: tt.search})
		if len(args) != 1 || args[0] != tt.want {
			t.Errorf("buildFilter(search=%q) args = %v, want [%s]", tt.search, args, tt.want)
		}
	}
}

func TestBuildFilterAllConditions(t *testing.T) {
	where, args := buildFilter(model.TaskFilter{
		ScopeUserID: 1,
		Status:      model.StatusCompleted,
		Priority:    model.PriorityHigh,
		AssignedTo:  2,
		CreatedBy:   3,
		Search:      "report",
	})

	for _, frag := range []string{
		"(t.assigned_to = $1 OR t.created_by = $1)",
		"t.status = $2",
		"t.priority = $3",
		"t.assigned_to = $4",
		"t.created_by = $5",
		"(t.title ILIKE $6 OR t.description ILIKE $6)",
	} {
		if !strings.Contains(where, frag) {
			t.Errorf("missing %q in %q", frag, where)
		}
	}
	if len(args) != 6 {
		t.Errorf("len(args) = %d, want 6", len(args))
	}
}

func TestOrderBy(t *testing.T) {
	tests := []struct {
		field string
		desc  bool
		want  string
	}{
		{"", false, "ORDER BY t.created_at DESC"},
		{"nonsense", true, "ORDER BY t.created_at DESC"},
		{"createdAt", true, "ORDER BY t.created_at DESC"},
		{"dueDate", false, "ORDER BY t.due_date ASC"},
		{"priority", true, "ORDER BY t.priority DESC"},
		{"title", false, "ORDER BY t.title ASC"},
	}

	for _, tt := range tests {
		got := orderBy(model.TaskFilter{SortField: tt.field, SortDesc: tt.desc})
		if got != tt.want {
			t.Errorf("orderBy(%q, desc=%v) = %q, want %q", tt.field, tt.desc, got, tt.want)
		}
	}
}
