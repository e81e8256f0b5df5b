package player

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// execMsg carries a function that must run on the Update goroutine, the
// only goroutine allowed to touch the timeline.
type execMsg struct {
	run func()
}

// executor implements frame.Executor on top of a running tea.Program.
// Without a program (tests, before Run) functions run inline.
type executor struct {
	mu   sync.Mutex
	p    *tea.Program
	quit chan struct{}
}

func newExecutor() *executor {
	return &executor{quit: make(chan struct{})}
}

func (e *executor) attach(p *tea.Program) {
	e.mu.Lock()
	e.p = p
	e.mu.Unlock()
}

// detach is called once the program has stopped; pending and future
// calls run inline.
func (e *executor) detach() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.p != nil {
		e.p = nil
		close(e.quit)
	}
}

// Do must not be called from Update itself.
func (e *executor) Do(fn func()) {
	e.mu.Lock()
	p, quit := e.p, e.quit
	e.mu.Unlock()
	if p == nil {
		fn()
		return
	}

	var once sync.Once
	done := make(chan struct{})
	p.Send(execMsg{run: func() {
		once.Do(fn)
		close(done)
	}})
	select {
	case <-done:
	case <-quit:
		once.Do(fn)
	}
}
