package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"loginflow/internal/login"
	"loginflow/internal/notify"
	"loginflow/internal/oauthsession"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Presenter renders a login controller and its notifications on a terminal.
type Presenter struct {
	out   io.Writer
	quiet bool

	mu      sync.Mutex
	spinner *spinner.Spinner
}

// NewPresenter creates a presenter that writes to out. In quiet mode no
// spinner is shown; notifications are always printed.
func NewPresenter(out io.Writer, quiet bool) *Presenter {
	return &Presenter{out: out, quiet: quiet}
}

// Attach subscribes the presenter to ctrl and channel.
func (p *Presenter) Attach(ctrl *login.Controller, channel *notify.Channel) {
	ctrl.OnTransition(p.onTransition)
	channel.Subscribe(p.onNotification)
}

func (p *Presenter) onTransition(t login.Transition) {
	switch {
	case t.To == login.StateAuthorizing:
		p.startSpinner(t.Control.Label)
	case t.From == login.StateAuthorizing:
		p.stopSpinner()
	}
}

func (p *Presenter) onNotification(msg notify.Message) {
	if !msg.Visible {
		return
	}
	p.stopSpinner()
	fmt.Fprintf(p.out, "%s\n", text.FgRed.Sprint("✗ "+msg.Text))
}

func (p *Presenter) startSpinner(label string) {
	if p.quiet {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.spinner != nil {
		return
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(p.out))
	s.Suffix = " " + label
	s.Start()
	p.spinner = s
}

func (p *Presenter) stopSpinner() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.spinner == nil {
		return
	}
	p.spinner.Stop()
	p.spinner = nil
}

// LoggedIn reports a successful login.
func (p *Presenter) LoggedIn(success *oauthsession.Success) {
	p.stopSpinner()
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, "%s Logged in as %s via %s\n",
		text.FgGreen.Sprint("✓"), text.Bold.Sprint(success.DisplayName), success.Provider)
}

// Info prints a neutral status line unless quiet.
func (p *Presenter) Info(format string, args ...interface{}) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Warn prints a warning line, even in quiet mode.
func (p *Presenter) Warn(format string, args ...interface{}) {
	fmt.Fprintf(p.out, "%s %s\n", text.FgYellow.Sprint("⚠"), fmt.Sprintf(format, args...))
}
