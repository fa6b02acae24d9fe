// Package history provides a reversible-command stack with clean-state
// tracking. The scene pushes one command per committed edit; intermediate
// states of a drag never reach the stack.
package history

// Command is a single reversible edit.
type Command interface {
	// Redo applies the edit. Called once when the command is pushed and
	// again on every redo.
	Redo()
	// Undo reverts the edit.
	Undo()
}

// Stack is an undo/redo stack. The zero value is not usable; use NewStack.
type Stack struct {
	commands []Command
	index    int // number of applied commands
	clean    int // index value at which the document is clean; -1 if unreachable

	onCleanChanged func(clean bool)
}

// NewStack creates an empty stack in the clean state.
func NewStack() *Stack {
	return &Stack{}
}

// SetCleanObserver installs a callback invoked whenever IsClean changes.
func (s *Stack) SetCleanObserver(fn func(clean bool)) {
	s.onCleanChanged = fn
}

// Push applies the command and appends it to the stack, discarding any
// undone tail. Nil commands are ignored.
func (s *Stack) Push(cmd Command) {
	if cmd == nil {
		return
	}
	was := s.IsClean()
	if s.index < len(s.commands) {
		s.commands = s.commands[:s.index]
		if s.clean > s.index {
			// The clean state sat on the discarded tail and can no
			// longer be reached by undo/redo alone.
			s.clean = -1
		}
	}
	s.commands = append(s.commands, cmd)
	s.index++
	cmd.Redo()
	s.notify(was)
}

// CanUndo returns true if there is a command to undo.
func (s *Stack) CanUndo() bool { return s.index > 0 }

// CanRedo returns true if there is a command to redo.
func (s *Stack) CanRedo() bool { return s.index < len(s.commands) }

// Undo reverts the most recent command. No-op on an empty stack.
func (s *Stack) Undo() {
	if !s.CanUndo() {
		return
	}
	was := s.IsClean()
	s.index--
	s.commands[s.index].Undo()
	s.notify(was)
}

// Redo re-applies the most recently undone command.
func (s *Stack) Redo() {
	if !s.CanRedo() {
		return
	}
	was := s.IsClean()
	s.commands[s.index].Redo()
	s.index++
	s.notify(was)
}

// Clear discards all commands and marks the stack clean.
func (s *Stack) Clear() {
	was := s.IsClean()
	s.commands = nil
	s.index = 0
	s.clean = 0
	s.notify(was)
}

// SetClean marks the current state as the clean one.
func (s *Stack) SetClean() {
	was := s.IsClean()
	s.clean = s.index
	s.notify(was)
}

// IsClean returns true if the current state is the clean one.
func (s *Stack) IsClean() bool { return s.clean == s.index }

// Len returns the number of commands on the stack.
func (s *Stack) Len() int { return len(s.commands) }

func (s *Stack) notify(wasClean bool) {
	if s.onCleanChanged != nil && wasClean != s.IsClean() {
		s.onCleanChanged(s.IsClean())
	}
}
