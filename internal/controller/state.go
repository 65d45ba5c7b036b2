package controller

import (
	"fmt"

	"github.com/jask/cardcraft/internal/card"
)

// State is one of Dashboard, Onboarding or Builder.
type State interface {
	fmt.Stringer
	isState()
}

// Dashboard lists the saved cards.
type Dashboard struct{}

// Onboarding walks a new card through the guided steps.
type Onboarding struct {
	Step Step
}

// Builder edits a copy of an existing card.
type Builder struct{}

func (Dashboard) isState()  {}
func (Onboarding) isState() {}
func (Builder) isState()    {}

func (Dashboard) String() string    { return "dashboard" }
func (o Onboarding) String() string { return "onboarding/" + o.Step.String() }
func (Builder) String() string      { return "builder" }

// Step is a guided onboarding step.
type Step int

const (
	StepWelcome Step = iota
	StepTemplate
	StepColor
	StepInfo
)

// Steps returns the onboarding sequence in order.
func Steps() []Step {
	return []Step{StepWelcome, StepTemplate, StepColor, StepInfo}
}

func (s Step) String() string {
	switch s {
	case StepWelcome:
		return "welcome"
	case StepTemplate:
		return "template"
	case StepColor:
		return "color"
	case StepInfo:
		return "info"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Title is the heading shown above the step.
func (s Step) Title() string {
	switch s {
	case StepWelcome:
		return "Welcome to CardCraft"
	case StepTemplate:
		return "Choose a template"
	case StepColor:
		return "Pick a color theme"
	case StepInfo:
		return "Add your details"
	default:
		return ""
	}
}

// Event is an input to Dispatch.
type Event interface {
	isEvent()
}

type (
	// CreateNew starts onboarding for a fresh card at the template step.
	CreateNew struct{}
	// StartTour starts onboarding for a fresh card at the welcome step.
	StartTour struct{}
	Next      struct{}
	Back      struct{}
	// Save persists the builder draft.
	Save struct{}
	// EditCard opens Card in the builder.
	EditCard struct {
		Card card.Card
	}
	// DeleteCard removes the card with ID from the collection.
	DeleteCard struct {
		ID string
	}
	// UpdateField changes one field of the draft.
	UpdateField struct {
		Field card.Field
		Value string
	}
)

func (CreateNew) isEvent()   {}
func (StartTour) isEvent()   {}
func (Next) isEvent()        {}
func (Back) isEvent()        {}
func (Save) isEvent()        {}
func (EditCard) isEvent()    {}
func (DeleteCard) isEvent()  {}
func (UpdateField) isEvent() {}
