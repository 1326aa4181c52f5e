package planner

import (
	"testing"

	"github.com/bkhnk48/gridflow/action"
	"github.com/bkhnk48/gridflow/config"
	"github.com/bkhnk48/gridflow/grid"
)

func testConfig(t *testing.T) config.Tunables {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load(\"\") failed: %v", err)
	}
	return cfg
}

// S1 (wait at goal): 3x3 empty grid, agent 0 at cell 0 facing East,
// goal cell 0. Expected action: Wait.
func TestPlanWaitAtGoal(t *testing.T) {
	p, err := Initialize(3, 3, make([]bool, 9), 1, 0, testConfig(t), nil, nil)
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	agents := []AgentInput{{Location: 0, Orientation: grid.East, Goals: []int{0}}}
	actions, err := p.Plan(agents, 0, 100)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if actions[0] != action.Wait {
		t.Errorf("action = %v, want Wait", actions[0])
	}
}

// S2 (straight forward): 1x5 empty row, agent 0 at cell 0 facing East,
// goal cell 4. Expected first action: Forward.
func TestPlanStraightForward(t *testing.T) {
	p, err := Initialize(1, 5, make([]bool, 5), 1, 0, testConfig(t), nil, nil)
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	agents := []AgentInput{{Location: 0, Orientation: grid.East, Goals: []int{4}}}
	actions, err := p.Plan(agents, 0, 100)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if actions[0] != action.Forward {
		t.Errorf("first action = %v, want Forward", actions[0])
	}
}

// S3 (rotate then forward): 3x3 empty grid, agent at cell 4 (center)
// facing East, goal cell 1 (north of center). Expected first action:
// CounterClockwiseRotate; second action (after the rotation takes
// effect): Forward.
func TestPlanRotateThenForward(t *testing.T) {
	p, err := Initialize(3, 3, make([]bool, 9), 1, 0, testConfig(t), nil, nil)
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	center := 4
	north := 1
	agents := []AgentInput{{Location: center, Orientation: grid.East, Goals: []int{north}}}
	actions, err := p.Plan(agents, 0, 100)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if actions[0] != action.CounterClockwiseRotate {
		t.Fatalf("first action = %v, want CounterClockwiseRotate", actions[0])
	}

	nextOrientation := action.NextOrientation(grid.East, actions[0])
	agents = []AgentInput{{Location: center, Orientation: nextOrientation, Goals: nil}}
	actions, err = p.Plan(agents, 1, 100)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if actions[0] != action.Forward {
		t.Errorf("second action = %v, want Forward", actions[0])
	}
}

// S4 (head-on deadlock tie-break): 1x3 row, agent A at cell 0 (goal 2)
// facing East, agent B at cell 2 (goal 0) facing West. Exactly one
// moves onto the shared middle cell and the other waits.
func TestPlanHeadOnDeadlockResolvesToOneMoverOneWaiter(t *testing.T) {
	p, err := Initialize(1, 3, make([]bool, 3), 2, 0, testConfig(t), nil, nil)
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	agents := []AgentInput{
		{Location: 0, Orientation: grid.East, Goals: []int{2}},
		{Location: 2, Orientation: grid.West, Goals: []int{0}},
	}
	actions, err := p.Plan(agents, 0, 100)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	waits, forwards := 0, 0
	for _, a := range actions {
		switch a {
		case action.Wait:
			waits++
		case action.Forward:
			forwards++
		}
	}
	if waits != 1 || forwards != 1 {
		t.Errorf("actions = %v, want exactly one Wait and one Forward", actions)
	}
}

func TestPlanRejectsMismatchedAgentCount(t *testing.T) {
	p, err := Initialize(3, 3, make([]bool, 9), 2, 0, testConfig(t), nil, nil)
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	_, err = p.Plan([]AgentInput{{Location: 0, Orientation: grid.East}}, 0, 100)
	if err == nil {
		t.Errorf("expected an error when agents length does not match num_agents")
	}
}

func TestInitializeRejectsZeroAgents(t *testing.T) {
	_, err := Initialize(3, 3, make([]bool, 9), 0, 0, testConfig(t), nil, nil)
	if err == nil {
		t.Errorf("expected an error for num_agents <= 0")
	}
}

func TestInitializeRejectsMismatchedObstacleMask(t *testing.T) {
	_, err := Initialize(3, 3, make([]bool, 4), 1, 0, testConfig(t), nil, nil)
	if err == nil {
		t.Errorf("expected an error for obstacle_mask length mismatch")
	}
}
