package notify

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

// spinnerControl is the part of a terminal spinner the console drives
type spinnerControl interface {
	Start()
	Stop()
}

// Console prints notifications to a terminal and spins while a pending
// notification is unsettled. The spinner is paused while other lines are
// written so output never interleaves.
type Console struct {
	out io.Writer
	mu  sync.Mutex
	wg  sync.WaitGroup

	newSpinner func(suffix string) spinnerControl
	active     spinnerControl
}

// NewConsole creates a console sink writing to stdout
func NewConsole() *Console {
	return NewConsoleWriter(os.Stdout, true)
}

// NewConsoleWriter creates a console sink writing to w. withSpinner enables the
// pending spinner.
func NewConsoleWriter(w io.Writer, withSpinner bool) *Console {
	c := &Console{out: w}
	if withSpinner {
		c.newSpinner = func(suffix string) spinnerControl {
			s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
			s.Suffix = suffix
			return s
		}
	}
	return c
}

// Notify prints n
func (c *Console) Notify(n Notification) {
	switch n.Kind {
	case KindPending:
		c.pending(n)
	case KindInfo:
		c.print(color.New(color.FgGreen), n)
	case KindError:
		c.print(color.New(color.FgRed), n)
	default:
		c.print(color.New(color.Reset), n)
	}
}

// Wait blocks until every pending notification is settled
func (c *Console) Wait() {
	c.wg.Wait()
}

func (c *Console) print(style *color.Color, n Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active != nil {
		c.active.Stop()
		defer c.active.Start()
	}
	c.writeLocked(style, n)
}

func (c *Console) writeLocked(style *color.Color, n Notification) {
	fmt.Fprintln(c.out)
	if n.Title != "" {
		style.Fprintln(c.out, n.Title)
	}
	if n.Content != "" {
		fmt.Fprintf(c.out, "  %s\n", n.Content)
	}
	if n.ActionURL != "" {
		fmt.Fprintf(c.out, "  %s\n", color.CyanString(n.ActionURL))
	}
}

func (c *Console) pending(n Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active != nil {
		c.active.Stop()
	}
	c.writeLocked(color.New(color.FgYellow), n)

	if n.Done == nil {
		if c.active != nil {
			c.active.Start()
		}
		return
	}

	// A newer pending notification replaces the running spinner
	var s spinnerControl
	if c.newSpinner != nil {
		suffix := " " + n.Content
		if n.Title != "" {
			suffix = " " + n.Title
		}
		s = c.newSpinner(suffix)
		s.Start()
	}
	c.active = s

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		<-n.Done

		c.mu.Lock()
		defer c.mu.Unlock()
		if s != nil {
			s.Stop()
		}
		if c.active == s {
			c.active = nil
		}
	}()
}
