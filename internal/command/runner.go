package command

import (
	"context"
	"fmt"
	"sync"

	"github.com/tarakania/rpg-bot/internal/parser"
)

// StopExecution aborts a running command without reporting a failure.
// Its message, when non-empty, is sent as the final response.
type StopExecution struct {
	Message string
}

func (e *StopExecution) Error() string {
	if e.Message == "" {
		return "command execution stopped"
	}
	return e.Message
}

// Stop builds a StopExecution error.
func Stop(format string, args ...any) error {
	return &StopExecution{Message: fmt.Sprintf(format, args...)}
}

// RunFunc executes the command. The returned string, when non-empty, is
// sent as the response; an empty string means the command already
// responded (or chose not to).
type RunFunc func(ctx context.Context, c *Context, args *parser.Arguments) (string, error)

// Runner is the executable half of a command. Init runs after each
// (re)load, Unload before the old logic is replaced; both are optional.
type Runner struct {
	Run    RunFunc
	Init   func(ctx context.Context) error
	Unload func(ctx context.Context) error
}

var (
	runnersMu sync.RWMutex
	runners   = make(map[string]Runner)
)

// RegisterRunner binds executable logic to a command name. Command
// packages call this from init() and are blank-imported by the main
// package. Registering a name twice replaces the previous runner,
// matching the registry's last-loaded-wins policy.
func RegisterRunner(name string, r Runner) {
	runnersMu.Lock()
	defer runnersMu.Unlock()
	runners[name] = r
}

// LookupRunner returns the runner registered under name.
func LookupRunner(name string) (Runner, bool) {
	runnersMu.RLock()
	defer runnersMu.RUnlock()
	r, ok := runners[name]
	return r, ok
}
