package workload

import (
	"context"
	"fmt"
	"math"

	"github.com/spec-kit/task-manager/internal/domain"
)

// Move is one task changing hands. Task already carries the destination
// member as its assignee.
type Move struct {
	Task domain.Task
	From domain.TeamMember
	To   domain.TeamMember
}

// Record converts the move into its API shape.
func (m Move) Record() domain.ReassignmentRecord {
	return domain.ReassignmentRecord{
		TaskID:    m.Task.ID,
		TaskTitle: m.Task.Title,
		From:      m.From.Name,
		To:        m.To.Name,
	}
}

// CommitFunc persists a single move. The rebalancer only updates its own
// state once the commit succeeded.
type CommitFunc func(ctx context.Context, move Move) error

// memberSlot is the running state of one member during a pass.
type memberSlot struct {
	member domain.TeamMember
	tasks  []*domain.Task
}

func (s *memberSlot) overloaded() bool { return len(s.tasks) > s.member.Capacity }

func (s *memberSlot) hasRoom() bool { return len(s.tasks) < s.member.Capacity }

func (s *memberSlot) remove(taskID string) {
	for i, t := range s.tasks {
		if t.ID == taskID {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return
		}
	}
}

// Rebalance moves non-High tasks away from overloaded members onto members
// that are strictly under capacity, in a single greedy pass.
//
// Each successful move is applied to tasks in place, so Calculate over the
// same slice afterwards reflects the new assignment. When commit fails the
// pass stops and the moves committed so far are returned with the error.
func Rebalance(ctx context.Context, members []domain.TeamMember, tasks []domain.Task, commit CommitFunc) ([]Move, error) {
	slots := make([]memberSlot, len(members))
	index := make(map[string]int, len(members))
	for i, m := range members {
		slots[i] = memberSlot{member: m}
		index[m.ID] = i
	}
	for i := range tasks {
		task := &tasks[i]
		if !task.IsOpen() || task.AssignedMemberID == nil {
			continue
		}
		if slot, ok := index[*task.AssignedMemberID]; ok {
			slots[slot].tasks = append(slots[slot].tasks, task)
		}
	}

	var moves []Move
	for src := range slots {
		source := &slots[src]
		if !source.overloaded() {
			continue
		}

		for _, task := range movable(source.tasks, len(source.tasks)-source.member.Capacity) {
			dst := destination(slots, src)
			if dst < 0 {
				continue
			}
			target := &slots[dst]

			if err := ctx.Err(); err != nil {
				return moves, err
			}

			moved := *task
			toID := target.member.ID
			moved.AssignedMemberID = &toID
			move := Move{Task: moved, From: source.member, To: target.member}
			if err := commit(ctx, move); err != nil {
				return moves, fmt.Errorf("move task %s from %s to %s: %w", task.ID, source.member.Name, target.member.Name, err)
			}

			task.AssignedMemberID = &toID
			source.remove(task.ID)
			target.tasks = append(target.tasks, task)
			moves = append(moves, move)
		}
	}
	return moves, nil
}

// movable returns up to limit tasks that are not High priority, keeping order.
// The result is a copy so later edits to the member's list do not shift it.
func movable(tasks []*domain.Task, limit int) []*domain.Task {
	out := make([]*domain.Task, 0, limit)
	for _, t := range tasks {
		if len(out) == limit {
			break
		}
		if t.Priority != domain.TaskPriorityHigh {
			out = append(out, t)
		}
	}
	return out
}

// destination returns the slot with the lowest load among members other than
// src that are strictly under capacity, or -1.
func destination(slots []memberSlot, src int) int {
	best := -1
	minLoad := math.Inf(1)
	for i := range slots {
		if i == src || !slots[i].hasRoom() {
			continue
		}
		if load := Load(len(slots[i].tasks), slots[i].member.Capacity); load < minLoad {
			minLoad = load
			best = i
		}
	}
	return best
}
