package core

import (
	"fmt"
	"strings"
)

// Component is a frontend work item inside a priority level.
type Component struct {
	Name         string   `json:"name"`         // Display name, unique within its parent collection
	Description  string   `json:"description"`  // What the component does
	Requirements []string `json:"requirements"` // Key requirements, may be empty
}

// Service is a backend work item. Structurally identical to Component.
type Service struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements"`
}

// Frontend groups the UI components of a priority level.
type Frontend struct {
	Components []Component `json:"components"`
}

// Backend groups the services and data model entities of a priority level.
type Backend struct {
	Services  []Service `json:"services"`
	DataModel []string  `json:"dataModel"`
}

// PriorityLevel is one p0/p1/p2 bucket of frontend and backend work.
type PriorityLevel struct {
	Frontend Frontend `json:"frontend"`
	Backend  Backend  `json:"backend"`
}

// Priorities always carries all three levels.
type Priorities struct {
	P0 PriorityLevel `json:"p0"`
	P1 PriorityLevel `json:"p1"`
	P2 PriorityLevel `json:"p2"`
}

// Level returns the priority level for a key like "p1".
func (p *Priorities) Level(key string) (*PriorityLevel, bool) {
	switch strings.ToLower(key) {
	case "p0":
		return &p.P0, true
	case "p1":
		return &p.P1, true
	case "p2":
		return &p.P2, true
	}
	return nil, false
}

// PriorityKeys lists the priority levels in display order.
var PriorityKeys = []string{"p0", "p1", "p2"}

// DevelopmentPhase is one ordered step of the delivery plan.
type DevelopmentPhase struct {
	Phase    string   `json:"phase"`    // Phase title
	Priority string   `json:"priority"` // Free-form label, usually p0/p1/p2
	Tasks    []string `json:"tasks"`
}

// Blueprint is the validated plan generated from an idea.
// It is never mutated after creation; amendments produce a new history entry.
type Blueprint struct {
	Overview         string             `json:"overview"`
	Priorities       Priorities         `json:"priorities"`
	DevelopmentSteps []DevelopmentPhase `json:"developmentSteps"`
}

// Clone returns a deep copy so callers can never alias stored slices.
func (b *Blueprint) Clone() *Blueprint {
	if b == nil {
		return nil
	}
	out := &Blueprint{Overview: b.Overview}
	out.Priorities.P0 = b.Priorities.P0.clone()
	out.Priorities.P1 = b.Priorities.P1.clone()
	out.Priorities.P2 = b.Priorities.P2.clone()
	out.DevelopmentSteps = make([]DevelopmentPhase, len(b.DevelopmentSteps))
	for i, step := range b.DevelopmentSteps {
		out.DevelopmentSteps[i] = DevelopmentPhase{
			Phase:    step.Phase,
			Priority: step.Priority,
			Tasks:    cloneStrings(step.Tasks),
		}
	}
	return out
}

func (l PriorityLevel) clone() PriorityLevel {
	out := PriorityLevel{
		Frontend: Frontend{Components: make([]Component, len(l.Frontend.Components))},
		Backend: Backend{
			Services:  make([]Service, len(l.Backend.Services)),
			DataModel: cloneStrings(l.Backend.DataModel),
		},
	}
	for i, c := range l.Frontend.Components {
		out.Frontend.Components[i] = Component{c.Name, c.Description, cloneStrings(c.Requirements)}
	}
	for i, s := range l.Backend.Services {
		out.Backend.Services[i] = Service{s.Name, s.Description, cloneStrings(s.Requirements)}
	}
	return out
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// Stats returns item counts across all priority levels.
func (b *Blueprint) Stats() (components, services, phases int) {
	for _, key := range PriorityKeys {
		level, _ := b.Priorities.Level(key)
		components += len(level.Frontend.Components)
		services += len(level.Backend.Services)
	}
	return components, services, len(b.DevelopmentSteps)
}

// GenerationRequest is the input to blueprint generation.
type GenerationRequest struct {
	Idea      string  `json:"idea"`
	Depth     int     `json:"depth"`     // Reserved for drill-down, currently always 1
	FocusArea *string `json:"focusArea"` // Optional area to emphasise
}

// Focus returns the focus area or "" when none is set.
func (r GenerationRequest) Focus() string {
	if r.FocusArea == nil {
		return ""
	}
	return strings.TrimSpace(*r.FocusArea)
}

// Normalize trims the idea and applies the default depth.
func (r GenerationRequest) Normalize() GenerationRequest {
	r.Idea = strings.TrimSpace(r.Idea)
	if r.Depth == 0 {
		r.Depth = 1
	}
	if r.FocusArea != nil {
		focus := strings.TrimSpace(*r.FocusArea)
		if focus == "" {
			r.FocusArea = nil
		} else {
			r.FocusArea = &focus
		}
	}
	return r
}

// Validate checks required request fields. It runs before any model call.
func (r GenerationRequest) Validate() error {
	if strings.TrimSpace(r.Idea) == "" {
		return NewError(KindInvalidInput, "validate request", &ValidationError{Field: "idea", Message: "required"})
	}
	if r.Depth < 0 {
		return NewError(KindInvalidInput, "validate request", &ValidationError{Field: "depth", Message: "must be >= 1"})
	}
	return nil
}

// ComponentRequest asks for a detailed breakdown of one component or service.
type ComponentRequest struct {
	ComponentName string   `json:"componentName"`
	Description   string   `json:"description"`
	Requirements  []string `json:"requirements"`
	Type          string   `json:"type"`     // frontend or backend
	Priority      string   `json:"priority"` // p0/p1/p2
}

// Validate checks that every field is present and non-empty.
func (r ComponentRequest) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"componentName", r.ComponentName},
		{"description", r.Description},
		{"type", r.Type},
		{"priority", r.Priority},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return NewError(KindInvalidInput, "validate request", &ValidationError{Field: f.name, Message: "required"})
		}
	}
	if len(r.Requirements) == 0 {
		return NewError(KindInvalidInput, "validate request", &ValidationError{Field: "requirements", Message: "at least one requirement required"})
	}
	return nil
}

// ImplementationStep is one step of a component breakdown.
type ImplementationStep struct {
	Step        string   `json:"step"`
	Description string   `json:"description"`
	CodeExample string   `json:"codeExample"`
	Notes       []string `json:"notes"`
}

// TechnicalConsideration is a risk or constraint with its mitigation.
type TechnicalConsideration struct {
	Aspect     string `json:"aspect"`
	Details    string `json:"details"`
	Mitigation string `json:"mitigation"`
}

// Technology is a required technology with alternatives.
type Technology struct {
	Name         string   `json:"name"`
	Purpose      string   `json:"purpose"`
	Alternatives []string `json:"alternatives"`
}

// Library is a suggested library and how to install it.
type Library struct {
	Name         string `json:"name"`
	Purpose      string `json:"purpose"`
	Installation string `json:"installation"`
}

// ThirdPartyService is an external service and how to integrate it.
type ThirdPartyService struct {
	Name        string `json:"name"`
	Purpose     string `json:"purpose"`
	Integration string `json:"integration"`
}

// ComponentBreakdown is the validated result of exploring a component.
type ComponentBreakdown struct {
	Name                    string                   `json:"name"`
	Description             string                   `json:"description"`
	SubComponents           []Component              `json:"subComponents"`
	ImplementationSteps     []ImplementationStep     `json:"implementationSteps"`
	TechnicalConsiderations []TechnicalConsideration `json:"technicalConsiderations"`
	RequiredTechnologies    []Technology             `json:"requiredTechnologies"`
	SuggestedLibraries      []Library                `json:"suggestedLibraries"`
	ThirdPartyServices      []ThirdPartyService      `json:"thirdPartyServices"`
}

// ValidationError represents a validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}
