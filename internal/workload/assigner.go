package workload

import (
	"errors"
	"math"

	"github.com/spec-kit/task-manager/internal/domain"
)

var (
	// ErrNoMembers is returned when the team has no members at all.
	ErrNoMembers = errors.New("workload: team has no members")
	// ErrNoEligibleMember is returned when every member has zero capacity.
	ErrNoEligibleMember = errors.New("workload: no member can take new work")
)

// Load is current tasks over capacity. A zero-capacity member is maximally
// loaded regardless of how many tasks it holds.
func Load(currentTasks, capacity int) float64 {
	if capacity <= 0 {
		return math.Inf(1)
	}
	return float64(currentTasks) / float64(capacity)
}

// LeastLoaded picks the member with the lowest load. The first member wins
// ties. Zero-capacity members are never picked.
func LeastLoaded(snapshot []domain.MemberWorkload) (domain.MemberWorkload, error) {
	if len(snapshot) == 0 {
		return domain.MemberWorkload{}, ErrNoMembers
	}

	best := -1
	minLoad := math.Inf(1)
	for i, entry := range snapshot {
		load := Load(entry.CurrentTasks, entry.Capacity)
		if load < minLoad {
			minLoad = load
			best = i
		}
	}
	if best < 0 {
		return domain.MemberWorkload{}, ErrNoEligibleMember
	}
	return snapshot[best], nil
}
