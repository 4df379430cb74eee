// Package controller is the imperative shell around package squiggle: it
// reads fresh state from a Store, runs the pure engine, writes the result
// back and reports it through an indicator and a notifier.
package controller

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"squiggles/internal/settings"
	"squiggles/internal/squiggle"
)

// Store is the settings backend. *settings.File implements it.
type Store interface {
	Customizations(ctx context.Context) (squiggle.Customizations, error)
	UpdateCustomizations(ctx context.Context, m squiggle.Customizations) error
	Options(ctx context.Context) (settings.Options, error)
}

// Notifier shows transient messages to the user.
type Notifier interface {
	Info(msg string)
	Error(msg string)
}

// Outcome reports what a toggle did.
type Outcome struct {
	Changed bool
	Visible bool
}

type Controller struct {
	store     Store
	indicator squiggle.Indicator
	notifier  Notifier
	log       *zap.Logger

	// serializes read-compute-write so a hide never reads state older than
	// a restore we issued before it
	mu sync.Mutex
}

type Option func(*Controller)

func WithIndicator(ind squiggle.Indicator) Option {
	return func(c *Controller) { c.indicator = ind }
}

func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

func New(store Store, opts ...Option) *Controller {
	c := &Controller{store: store, log: zap.NewNop()}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Toggle hides or restores squiggles according to the current settings.
func (c *Controller) Toggle(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.toggle(ctx)
}

func (c *Controller) toggle(ctx context.Context) (Outcome, error) {
	opts, err := c.store.Options(ctx)
	if err != nil {
		return Outcome{}, c.fail("read options", err)
	}
	cur, err := c.store.Customizations(ctx)
	if err != nil {
		return Outcome{}, c.fail("read color customizations", err)
	}

	res := squiggle.Apply(cur, opts.Toggles)
	if !res.Changed {
		c.log.Debug("toggle: nothing to do", zap.Any("toggles", opts.Toggles))
		return Outcome{}, nil
	}
	if err := c.store.UpdateCustomizations(ctx, res.Next); err != nil {
		return Outcome{}, c.fail("write color customizations", err)
	}

	c.log.Info("toggled squiggles", zap.Bool("visible", res.Visible))
	squiggle.SetStatus(c.indicator, res.Visible)
	if opts.ShowStatusMessage && c.notifier != nil {
		c.notifier.Info(squiggle.Message(res.Visible))
	}
	return Outcome{Changed: true, Visible: res.Visible}, nil
}

// Activate repairs state left by an unclean shutdown and then, if the
// startHidden setting is on, hides squiggles. The repair write completes
// before the hide reads.
func (c *Controller) Activate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.reconcile(ctx); err != nil {
		return err
	}
	opts, err := c.store.Options(ctx)
	if err != nil {
		return fmt.Errorf("read options: %w", err)
	}
	if opts.StartHidden {
		_, err := c.toggle(ctx)
		return err
	}
	_, err = c.refresh(ctx)
	return err
}

// Deactivate restores any hidden state so the settings never keep
// transparent squiggles once nothing is managing them.
func (c *Controller) Deactivate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.reconcile(ctx); err != nil {
		c.log.Error("restore on deactivate failed", zap.Error(err))
		return err
	}
	squiggle.SetStatus(c.indicator, true)
	return nil
}

func (c *Controller) reconcile(ctx context.Context) error {
	cur, err := c.store.Customizations(ctx)
	if err != nil {
		return fmt.Errorf("read color customizations: %w", err)
	}
	next, ok := squiggle.Reconcile(cur)
	if !ok {
		return nil
	}
	if err := c.store.UpdateCustomizations(ctx, next); err != nil {
		return fmt.Errorf("restore color customizations: %w", err)
	}
	c.log.Info("restored squiggles from saved state")
	return nil
}

// Refresh sets the indicator from the settings without changing them.
func (c *Controller) Refresh(ctx context.Context) (squiggle.State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refresh(ctx)
}

func (c *Controller) refresh(ctx context.Context) (squiggle.State, error) {
	opts, err := c.store.Options(ctx)
	if err != nil {
		return squiggle.Visible, fmt.Errorf("read options: %w", err)
	}
	cur, err := c.store.Customizations(ctx)
	if err != nil {
		return squiggle.Visible, fmt.Errorf("read color customizations: %w", err)
	}
	st := squiggle.Visibility(cur, opts.Toggles)
	squiggle.SetStatus(c.indicator, st == squiggle.Visible)
	return st, nil
}

func (c *Controller) fail(what string, err error) error {
	c.log.Error("toggle failed", zap.String("step", what), zap.Error(err))
	if c.notifier != nil {
		c.notifier.Error(squiggle.MessageFailed)
	}
	return fmt.Errorf("%s: %w", what, err)
}
