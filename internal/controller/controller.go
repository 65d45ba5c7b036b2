// Package controller holds the application state machine: which screen is
// showing, the saved cards and the card being drafted.
package controller

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jask/cardcraft/internal/card"
	"github.com/jask/cardcraft/internal/logging"
)

var (
	// ErrIllegalTransition is returned for an event the current state does not accept.
	ErrIllegalTransition = errors.New("illegal transition")
	// ErrPersist wraps a store failure. The transition itself has already happened.
	ErrPersist = errors.New("persist failed")
)

// Store is the persistence the controller needs.
type Store interface {
	Cards(ctx context.Context) []card.Card
	SaveCards(ctx context.Context, cards []card.Card) error
	HasSeenOnboarding(ctx context.Context) bool
	SetHasSeenOnboarding(ctx context.Context, seen bool) error
}

// Controller is not safe for concurrent use; drive it from one goroutine.
type Controller struct {
	store   Store
	factory *card.Factory
	log     *zap.Logger

	state State
	cards []card.Card
	draft *card.Card
	seen  bool
}

// New loads the saved cards and starts on the dashboard. A nil factory uses
// the wall clock.
func New(ctx context.Context, s Store, f *card.Factory, log *zap.Logger) *Controller {
	if f == nil {
		f = &card.Factory{}
	}
	return &Controller{
		store:   s,
		factory: f,
		log:     logging.OrNop(log),
		state:   Dashboard{},
		cards:   s.Cards(ctx),
		seen:    s.HasSeenOnboarding(ctx),
	}
}

// State returns the current screen.
func (c *Controller) State() State { return c.state }

// Cards returns a copy of the saved collection.
func (c *Controller) Cards() []card.Card {
	out := make([]card.Card, len(c.cards))
	copy(out, c.cards)
	return out
}

// Draft returns the card being edited, if any.
func (c *Controller) Draft() (card.Card, bool) {
	if c.draft == nil {
		return card.Card{}, false
	}
	return *c.draft, true
}

// HasSeenOnboarding reports whether onboarding was ever completed.
func (c *Controller) HasSeenOnboarding() bool { return c.seen }

// Dispatch applies ev to the current state. Illegal events leave everything
// untouched and return ErrIllegalTransition.
func (c *Controller) Dispatch(ctx context.Context, ev Event) error {
	from := c.state
	var err error
	switch st := c.state.(type) {
	case Dashboard:
		err = c.onDashboard(ctx, ev)
	case Onboarding:
		err = c.onOnboarding(ctx, st, ev)
	case Builder:
		err = c.onBuilder(ctx, ev)
	default:
		err = fmt.Errorf("%w: unknown state %T", ErrIllegalTransition, st)
	}
	if errors.Is(err, ErrIllegalTransition) {
		c.log.Debug("event rejected", zap.Stringer("state", from), zap.String("event", fmt.Sprintf("%T", ev)))
		return err
	}
	if c.state != from {
		c.log.Debug("transition", zap.Stringer("from", from), zap.Stringer("to", c.state))
	}
	return err
}

func (c *Controller) onDashboard(ctx context.Context, ev Event) error {
	switch e := ev.(type) {
	case CreateNew:
		c.begin(StepTemplate)
		return nil
	case StartTour:
		c.begin(StepWelcome)
		return nil
	case EditCard:
		d := e.Card
		c.draft = &d
		c.state = Builder{}
		return nil
	case DeleteCard:
		c.cards = card.Remove(c.cards, e.ID)
		return c.persistCards(ctx)
	default:
		return illegal(c.state, ev)
	}
}

func (c *Controller) onOnboarding(ctx context.Context, st Onboarding, ev Event) error {
	switch e := ev.(type) {
	case UpdateField:
		return c.update(e)
	case Next:
		switch st.Step {
		case StepWelcome, StepTemplate, StepColor:
			c.state = Onboarding{Step: st.Step + 1}
			return nil
		case StepInfo:
			return c.complete(ctx)
		}
	case Back:
		switch st.Step {
		case StepWelcome, StepTemplate:
			c.discard()
			return nil
		case StepColor, StepInfo:
			c.state = Onboarding{Step: st.Step - 1}
			return nil
		}
	}
	return illegal(c.state, ev)
}

func (c *Controller) onBuilder(ctx context.Context, ev Event) error {
	switch e := ev.(type) {
	case UpdateField:
		return c.update(e)
	case Back:
		c.discard()
		return nil
	case Save:
		return c.commit(ctx)
	default:
		return illegal(c.state, ev)
	}
}

func (c *Controller) begin(step Step) {
	d := c.factory.New()
	c.draft = &d
	c.state = Onboarding{Step: step}
}

func (c *Controller) discard() {
	c.draft = nil
	c.state = Dashboard{}
}

func (c *Controller) update(e UpdateField) error {
	if c.draft == nil {
		return illegal(c.state, e)
	}
	return c.draft.Set(e.Field, e.Value)
}

// complete finishes onboarding: the draft is saved and the seen flag set once.
func (c *Controller) complete(ctx context.Context) error {
	err := c.commit(ctx)
	if c.seen {
		return err
	}
	c.seen = true
	if ferr := c.store.SetHasSeenOnboarding(ctx, true); ferr != nil {
		c.log.Warn("save onboarding flag", zap.Error(ferr))
		err = errors.Join(err, fmt.Errorf("%w: onboarding flag: %w", ErrPersist, ferr))
	}
	return err
}

// commit stamps the draft, upserts it and returns to the dashboard.
func (c *Controller) commit(ctx context.Context) error {
	if c.draft != nil {
		d := *c.draft
		d.Touch(c.factory.NowMillis())
		c.cards = card.Upsert(c.cards, d)
	}
	c.discard()
	return c.persistCards(ctx)
}

func (c *Controller) persistCards(ctx context.Context) error {
	if err := c.store.SaveCards(ctx, c.cards); err != nil {
		c.log.Warn("save cards", zap.Int("count", len(c.cards)), zap.Error(err))
		return fmt.Errorf("%w: cards: %w", ErrPersist, err)
	}
	return nil
}

func illegal(s State, ev Event) error {
	return fmt.Errorf("%w: %T in %s", ErrIllegalTransition, ev, s)
}
