package login

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"loginflow/internal/authmethods"
	"loginflow/internal/oauthsession"
	"loginflow/pkg/logging"

	"golang.org/x/sync/semaphore"
)

// MethodResolver discovers the available login methods.
type MethodResolver interface {
	Resolve(ctx context.Context) (*authmethods.Snapshot, error)
}

// Authorizer runs an OAuth2 authorization with one provider.
type Authorizer interface {
	Authorize(ctx context.Context, provider authmethods.Provider) oauthsession.Outcome
}

// Notifier shows user-visible messages.
type Notifier interface {
	Show(text string)
	Clear()
}

var errNoSnapshot = errors.New("resolver returned no snapshot")

// Handoff receives control after a successful login.
type Handoff interface {
	Complete(ctx context.Context, success *oauthsession.Success) error
}

// HandoffFunc adapts a function to Handoff.
type HandoffFunc func(ctx context.Context, success *oauthsession.Success) error

// Complete calls f.
func (f HandoffFunc) Complete(ctx context.Context, success *oauthsession.Success) error {
	return f(ctx, success)
}

// Config holds the controller's collaborators. All fields are required.
type Config struct {
	Resolver   MethodResolver
	Authorizer Authorizer
	Notifier   Notifier
}

// Option customizes a Controller.
type Option func(*Controller)

// WithSelector sets the provider selection policy. The default is
// FirstProvider.
func WithSelector(s Selector) Option {
	return func(c *Controller) {
		if s != nil {
			c.selector = s
			c.wanted = ""
		}
	}
}

// WithProvider selects the provider called name. An empty name keeps the
// default policy.
func WithProvider(name string) Option {
	return func(c *Controller) {
		c.selector = ProviderNamed(name)
		c.wanted = name
	}
}

// WithHandoff sets the collaborator invoked after a successful login.
func WithHandoff(h Handoff) Option {
	return func(c *Controller) {
		c.handoff = h
	}
}

// WithMessages replaces the notification texts.
func WithMessages(m *Messages) Option {
	return func(c *Controller) {
		if m != nil {
			c.messages = m
		}
	}
}

// Controller drives the login control.
type Controller struct {
	resolver   MethodResolver
	authorizer Authorizer
	notifier   Notifier
	handoff    Handoff
	selector   Selector
	wanted     string
	messages   *Messages

	// inflight admits one click at a time.
	inflight *semaphore.Weighted

	mu        sync.RWMutex
	state     State
	control   ControlState
	observers []func(Transition)
}

// NewController creates a controller in StateIdle.
func NewController(cfg Config, opts ...Option) (*Controller, error) {
	if cfg.Resolver == nil {
		return nil, errors.New("login controller requires a method resolver")
	}
	if cfg.Authorizer == nil {
		return nil, errors.New("login controller requires an authorizer")
	}
	if cfg.Notifier == nil {
		return nil, errors.New("login controller requires a notifier")
	}

	c := &Controller{
		resolver:   cfg.Resolver,
		authorizer: cfg.Authorizer,
		notifier:   cfg.Notifier,
		selector:   FirstProvider,
		messages:   DefaultMessages(),
		inflight:   semaphore.NewWeighted(1),
		state:      StateIdle,
		control:    controlReady,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Control returns what the login control should display.
func (c *Controller) Control() ControlState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.control
}

// OnTransition registers fn to be called after every state change. Callbacks
// run synchronously on the goroutine making the change and must not call
// Click.
func (c *Controller) OnTransition(fn func(Transition)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// Click handles one activation of the login control. It returns nil when the
// click is refused because the controller is not Idle.
//
// Discovery runs before Click returns. If a provider was selected, the
// exchange continues in the background under ctx, so ctx must outlive the
// returned Attempt.
func (c *Controller) Click(ctx context.Context) *Attempt {
	if !c.inflight.TryAcquire(1) {
		logging.Debug("Login", "Ignoring click while busy")
		return nil
	}
	if state := c.State(); state != StateIdle {
		c.inflight.Release(1)
		logging.Debug("Login", "Ignoring click in state %s", state)
		return nil
	}

	attempt := newAttempt()
	c.notifier.Clear()
	c.transition(StateResolvingMethods, controlReady)

	snapshot, err := c.resolver.Resolve(ctx)
	if err == nil && snapshot == nil {
		err = &authmethods.DiscoveryError{Err: errNoSnapshot}
	}
	if err != nil {
		text := c.messages.render(c.messages.discoveryFailed, MessageData{Reason: "discovery_failed"})
		logging.Warn("Login", "Discovering login methods failed: %v", err)
		c.failed(text)
		c.done(attempt, Result{Kind: ResultDiscoveryFailed, Err: err, Notification: text})
		return attempt
	}

	if !snapshot.HasProviders() {
		text := c.messages.render(c.messages.noProviders, MessageData{})
		logging.Info("Login", "No OAuth2 providers configured")
		c.notifyIdle(text)
		c.done(attempt, Result{Kind: ResultNoProviders, Notification: text})
		return attempt
	}

	provider, ok := c.selector(snapshot.Providers())
	if !ok {
		name := c.wanted
		text := c.messages.render(c.messages.providerMissing, MessageData{Provider: name})
		if name == "" {
			logging.Info("Login", "Provider selector matched none of %d providers", len(snapshot.Providers()))
		} else {
			logging.Info("Login", "Requested provider %q is not configured", name)
		}
		c.notifyIdle(text)
		c.done(attempt, Result{Kind: ResultProviderMissing, Provider: name, Notification: text})
		return attempt
	}

	logging.Info("Login", "Authorizing with provider %s", provider.Name)
	c.transition(StateAuthorizing, controlBusy)

	go c.authorize(ctx, attempt, provider)
	return attempt
}

func (c *Controller) authorize(ctx context.Context, attempt *Attempt, provider authmethods.Provider) {
	outcome := c.authorizer.Authorize(ctx, provider)

	if outcome.OK() {
		// The control keeps its busy look: the page is being handed off.
		c.transition(StateCompleted, controlBusy)
		logging.Info("Login", "Logged in as %s via %s", outcome.Success.DisplayName, provider.Name)

		var handoffErr error
		if c.handoff != nil {
			if handoffErr = c.handoff.Complete(ctx, outcome.Success); handoffErr != nil {
				logging.Error("Login", handoffErr, "Post-login handoff failed")
				handoffErr = fmt.Errorf("post-login handoff failed: %w", handoffErr)
			}
		}
		c.done(attempt, Result{
			Kind:     ResultAuthorized,
			Provider: provider.Name,
			Success:  outcome.Success,
			Err:      handoffErr,
		})
		return
	}

	failure := outcome.Failure
	if failure == nil {
		failure = &oauthsession.Failure{
			Provider: provider.Name,
			Reason:   oauthsession.BackendError,
			Err:      errors.New("authorizer returned neither success nor failure"),
		}
	}

	data := MessageData{Provider: providerLabel(provider), Reason: failure.Reason.String(), Detail: failure.Detail}
	var text string
	switch failure.Reason {
	case oauthsession.NetworkError:
		text = c.messages.render(c.messages.networkError, data)
	case oauthsession.Canceled:
		text = c.messages.render(c.messages.canceled, data)
	default:
		text = c.messages.render(c.messages.backendError, data)
	}
	logging.Warn("Login", "Authorization with %s failed (%s): %v", provider.Name, failure.Reason, failure.Err)

	c.failed(text)
	c.done(attempt, Result{
		Kind:         ResultAuthorizationFailed,
		Provider:     provider.Name,
		Failure:      failure,
		Notification: text,
	})
}

// failed shows text, resets the control and returns to Idle.
func (c *Controller) failed(text string) {
	c.notifier.Show(text)
	c.transition(StateFailed, controlReady)
	c.transition(StateIdle, controlReady)
}

// notifyIdle passes through StateNoProvidersNotified back to Idle.
func (c *Controller) notifyIdle(text string) {
	c.transition(StateNoProvidersNotified, controlReady)
	c.notifier.Show(text)
	c.transition(StateIdle, controlReady)
}

// done releases the click guard before resolving the attempt, so a waiter
// may click again immediately.
func (c *Controller) done(attempt *Attempt, result Result) {
	c.inflight.Release(1)
	attempt.finish(result)
}

func (c *Controller) transition(to State, control ControlState) {
	c.mu.Lock()
	from := c.state
	c.state = to
	c.control = control
	observers := make([]func(Transition), len(c.observers))
	copy(observers, c.observers)
	c.mu.Unlock()

	logging.Debug("Login", "State %s -> %s (label=%q disabled=%t)", from, to, control.Label, control.Disabled)

	t := Transition{From: from, To: to, Control: control}
	for _, fn := range observers {
		fn(t)
	}
}

func providerLabel(p authmethods.Provider) string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Name
}
