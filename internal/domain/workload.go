package domain

// MemberWorkload is the per-member load of one project.
type MemberWorkload struct {
	MemberID     string
	Name         string
	Role         string
	Capacity     int
	CurrentTasks int
	IsOverloaded bool
}

// ReassignmentRecord describes one committed move. From and To are member names.
type ReassignmentRecord struct {
	TaskID    string `json:"taskId"`
	TaskTitle string `json:"taskTitle"`
	From      string `json:"from"`
	To        string `json:"to"`
}

// TeamMemberSummary is a dashboard row for one member of one team.
type TeamMemberSummary struct {
	TeamID   string
	TeamName string
	MemberWorkload
}
