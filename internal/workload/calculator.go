package workload

import "github.com/spec-kit/task-manager/internal/domain"

// Calculate returns the load of every member in team order. Done tasks and
// tasks assigned to members outside the team are ignored.
func Calculate(members []domain.TeamMember, tasks []domain.Task) []domain.MemberWorkload {
	counts := make(map[string]int, len(members))
	for i := range tasks {
		task := &tasks[i]
		if !task.IsOpen() || task.AssignedMemberID == nil {
			continue
		}
		counts[*task.AssignedMemberID]++
	}

	result := make([]domain.MemberWorkload, 0, len(members))
	for _, member := range members {
		current := counts[member.ID]
		result = append(result, domain.MemberWorkload{
			MemberID:     member.ID,
			Name:         member.Name,
			Role:         member.Role,
			Capacity:     member.Capacity,
			CurrentTasks: current,
			IsOverloaded: current > member.Capacity,
		})
	}
	return result
}
