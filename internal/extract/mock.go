package extract

import "context"

// Invocation is one command a RecordingBuilder was asked to build.
type Invocation struct {
	Name string
	Args []string
}

// Flag returns the argument after flag, or "".
func (inv Invocation) Flag(flag string) string {
	for i, a := range inv.Args {
		if a == flag && i+1 < len(inv.Args) {
			return inv.Args[i+1]
		}
	}
	return ""
}

// Has reports whether flag was passed.
func (inv Invocation) Has(flag string) bool {
	for _, a := range inv.Args {
		if a == flag {
			return true
		}
	}
	return false
}

// StubExecutor returns canned output.
type StubExecutor struct {
	Output []byte
	Err    error
	Calls  int
}

// Run counts the call and returns Output and Err.
func (s *StubExecutor) Run() ([]byte, error) {
	s.Calls++
	return s.Output, s.Err
}

// RecordingBuilder is a CommandBuilder for tests. It records every
// invocation and answers with Respond, or an empty StubExecutor.
type RecordingBuilder struct {
	Invocations []Invocation
	Respond     func(Invocation) *StubExecutor
}

// BuildCommand records the invocation before answering it.
func (b *RecordingBuilder) BuildCommand(_ context.Context, name string, args ...string) CommandExecutor {
	inv := Invocation{Name: name, Args: args}
	b.Invocations = append(b.Invocations, inv)
	if b.Respond == nil {
		return &StubExecutor{}
	}
	return b.Respond(inv)
}

// Last returns the latest invocation, or nil.
func (b *RecordingBuilder) Last() *Invocation {
	if len(b.Invocations) == 0 {
		return nil
	}
	return &b.Invocations[len(b.Invocations)-1]
}
