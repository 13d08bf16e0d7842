package trace

import (
	"fmt"
	"strings"
	"time"

	"github.com/san-kum/pointfield/internal/engine"
	"github.com/san-kum/pointfield/internal/mathutil"
)

type Action int

const (
	Move Action = iota
	Leave
	Click
	Down
	Key
	Resize
)

func (a Action) String() string {
	switch a {
	case Move:
		return "move"
	case Leave:
		return "leave"
	case Click:
		return "click"
	case Down:
		return "down"
	case Key:
		return "key"
	case Resize:
		return "resize"
	}
	return "unknown"
}

// NoTarget marks a pointer step that uses its X, Y coordinates instead of a
// point's current screen position.
const NoTarget = -1

// Step is one scripted input, applied before the first frame at or after At.
type Step struct {
	At     time.Duration
	Action Action
	Target int
	X, Y   float64
	Key    string
}

func (s Step) String() string {
	switch {
	case s.Action == Key:
		return fmt.Sprintf("%v key %s", s.At, s.Key)
	case s.Action == Leave:
		return fmt.Sprintf("%v leave", s.At)
	case s.Target != NoTarget:
		return fmt.Sprintf("%v %s point %d", s.At, s.Action, s.Target)
	}
	return fmt.Sprintf("%v %s %.0f,%.0f", s.At, s.Action, s.X, s.Y)
}

type Script []Step

// Apply feeds s to e. Pointer steps aimed at a hidden point are skipped.
func (s Step) Apply(e *engine.Engine) {
	pos := mathutil.Vec2{X: s.X, Y: s.Y}
	if s.Target != NoTarget && s.Action != Key && s.Action != Leave && s.Action != Resize {
		if s.Target < 0 || s.Target >= len(e.Points()) {
			return
		}
		sp, ok := e.ScreenPosition(s.Target)
		if !ok {
			return
		}
		pos = sp
	}

	switch s.Action {
	case Move:
		e.OnPointerMove(pos.X, pos.Y)
	case Leave:
		e.OnPointerLeave()
	case Click:
		e.OnPointerDown(pos.X, pos.Y)
		e.OnClick(pos.X, pos.Y)
	case Down:
		e.OnPointerDown(pos.X, pos.Y)
	case Key:
		e.OnKeyDown(s.Key)
	case Resize:
		e.OnResize(s.X, s.Y)
	}
}

// Tour hovers each interactive point in turn, opens the first project,
// dismisses it with Escape, then opens the last one and lets it time out
// with the pointer gone.
func Tour(interactive []int) Script {
	var s Script
	at := 200 * time.Millisecond
	for _, idx := range interactive {
		s = append(s, Step{At: at, Action: Move, Target: idx})
		at += 400 * time.Millisecond
	}
	if len(interactive) == 0 {
		return append(s, Step{At: at, Action: Leave, Target: NoTarget})
	}

	first, last := interactive[0], interactive[len(interactive)-1]
	s = append(s,
		Step{At: at, Action: Click, Target: first},
		Step{At: at + time.Second, Action: Key, Target: NoTarget, Key: "Escape"},
		Step{At: at + 1500*time.Millisecond, Action: Click, Target: last},
		Step{At: at + 1600*time.Millisecond, Action: Leave, Target: NoTarget},
	)
	return s
}

// ParseScript reads one step per line: "<ms> <action> [args]". Pointer
// actions take either "#<index>" or "<x> <y>"; key takes the key name;
// resize takes "<w> <h>". Blank lines and lines starting with # are skipped.
func ParseScript(text string) (Script, error) {
	var s Script
	for n, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		step, err := parseStep(line)
		if err != nil {
			return nil, fmt.Errorf("trace: line %d: %w", n+1, err)
		}
		s = append(s, step)
	}
	return s, nil
}

func parseStep(line string) (Step, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return Step{}, fmt.Errorf("want \"<ms> <action>\", got %q", line)
	}
	var ms int
	if _, err := fmt.Sscanf(fields[0], "%d", &ms); err != nil || ms < 0 {
		return Step{}, fmt.Errorf("bad time %q", fields[0])
	}
	step := Step{At: time.Duration(ms) * time.Millisecond, Target: NoTarget}
	args := fields[2:]

	switch fields[1] {
	case "move":
		step.Action = Move
	case "click":
		step.Action = Click
	case "down":
		step.Action = Down
	case "leave":
		step.Action = Leave
		return step, nil
	case "key":
		if len(args) != 1 {
			return Step{}, fmt.Errorf("key wants one argument")
		}
		step.Action, step.Key = Key, args[0]
		return step, nil
	case "resize":
		step.Action = Resize
		if len(args) != 2 {
			return Step{}, fmt.Errorf("resize wants width and height")
		}
		_, err := fmt.Sscanf(args[0]+" "+args[1], "%g %g", &step.X, &step.Y)
		return step, err
	default:
		return Step{}, fmt.Errorf("unknown action %q", fields[1])
	}

	switch {
	case len(args) == 1 && strings.HasPrefix(args[0], "#"):
		if _, err := fmt.Sscanf(args[0], "#%d", &step.Target); err != nil {
			return Step{}, fmt.Errorf("bad target %q", args[0])
		}
	case len(args) == 2:
		if _, err := fmt.Sscanf(args[0]+" "+args[1], "%g %g", &step.X, &step.Y); err != nil {
			return Step{}, fmt.Errorf("bad position %q", strings.Join(args, " "))
		}
	default:
		return Step{}, fmt.Errorf("%s wants #<index> or <x> <y>", fields[1])
	}
	return step, nil
}
