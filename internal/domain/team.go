package domain

import "time"

// Capacity bounds for a team member.
const (
	MinCapacity     = 0
	MaxCapacity     = 5
	DefaultCapacity = 3
)

// TeamMember belongs to exactly one team and has no lifecycle of its own.
type TeamMember struct {
	ID       string
	TeamID   string
	Name     string
	Role     string
	Capacity int
}

// Team is an ordered list of members owned by one user.
type Team struct {
	ID        string
	OwnerID   string
	Name      string
	Members   []TeamMember
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Member returns the member with the given id.
func (t *Team) Member(id string) (TeamMember, bool) {
	for _, m := range t.Members {
		if m.ID == id {
			return m, true
		}
	}
	return TeamMember{}, false
}
