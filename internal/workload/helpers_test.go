package workload

import "github.com/spec-kit/task-manager/internal/domain"

func member(id string, capacity int) domain.TeamMember {
	return domain.TeamMember{ID: id, Name: id, Role: "dev", Capacity: capacity}
}

func task(id, memberID string, priority domain.TaskPriority) domain.Task {
	t := domain.Task{ID: id, Title: "task " + id, Priority: priority, Status: domain.TaskStatusPending}
	if memberID != "" {
		m := memberID
		t.AssignedMemberID = &m
	}
	return t
}

func assignee(t domain.Task) string {
	if t.AssignedMemberID == nil {
		return ""
	}
	return *t.AssignedMemberID
}
