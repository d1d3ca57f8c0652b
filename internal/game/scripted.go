package game

import (
	"sync"

	"github.com/Versifine/coinrun/internal/vehicle"
)

// ScriptedInput replays a fixed list of frames and then holds the last one.
// It drives headless runs when no console is attached.
type ScriptedInput struct {
	mu     sync.Mutex
	frames []vehicle.Input
	next   int
	jumps  int
}

func NewScriptedInput(frames ...vehicle.Input) *ScriptedInput {
	if len(frames) == 0 {
		frames = []vehicle.Input{{}}
	}
	return &ScriptedInput{frames: frames}
}

func (s *ScriptedInput) Input() vehicle.Input {
	s.mu.Lock()
	defer s.mu.Unlock()
	in := s.frames[s.next]
	if s.next < len(s.frames)-1 {
		s.next++
	}
	return in
}

func (s *ScriptedInput) ConsumeJump() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jumps++
}

// DroppedJumps counts jump requests the controller discarded.
func (s *ScriptedInput) DroppedJumps() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jumps
}
