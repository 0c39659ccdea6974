package core

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// ValidateBlueprint checks a decoded candidate against the Blueprint shape and
// repairs it. The overview and developmentSteps fields are required; every
// other collection is substituted with an empty one when absent or mistyped.
func ValidateBlueprint(raw []byte) (*Blueprint, error) {
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return nil, invalidStructure("root", "must be a JSON object")
	}

	overview := root.Get("overview")
	if overview.Type != gjson.String || strings.TrimSpace(overview.String()) == "" {
		return nil, invalidStructure("overview", "required")
	}
	steps := root.Get("developmentSteps")
	if !steps.IsArray() {
		return nil, invalidStructure("developmentSteps", "required array")
	}

	b := &Blueprint{Overview: validText(overview.String())}
	for _, key := range PriorityKeys {
		level, _ := b.Priorities.Level(key)
		*level = readPriorityLevel(root.Get("priorities." + key))
	}

	b.DevelopmentSteps = []DevelopmentPhase{}
	for _, step := range steps.Array() {
		switch {
		case step.IsObject():
			b.DevelopmentSteps = append(b.DevelopmentSteps, DevelopmentPhase{
				Phase:    scalar(step.Get("phase")),
				Priority: scalar(step.Get("priority")),
				Tasks:    stringList(step.Get("tasks")),
			})
		case scalar(step) != "":
			b.DevelopmentSteps = append(b.DevelopmentSteps, DevelopmentPhase{
				Phase: scalar(step),
				Tasks: []string{},
			})
		}
	}

	return b, nil
}

func readPriorityLevel(level gjson.Result) PriorityLevel {
	components := namedItems(level.Get("frontend.components"), "component")
	services := []Service{}
	for _, item := range namedItems(level.Get("backend.services"), "service") {
		services = append(services, Service(item))
	}
	return PriorityLevel{
		Frontend: Frontend{Components: components},
		Backend: Backend{
			Services:  services,
			DataModel: stringList(level.Get("backend.dataModel")),
		},
	}
}

// ValidateComponent checks and repairs a component breakdown candidate.
// name, description and an implementationSteps array are required.
func ValidateComponent(raw []byte) (*ComponentBreakdown, error) {
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return nil, invalidStructure("root", "must be a JSON object")
	}
	for _, field := range []string{"name", "description"} {
		v := root.Get(field)
		if v.Type != gjson.String || strings.TrimSpace(v.String()) == "" {
			return nil, invalidStructure(field, "required")
		}
	}
	steps := root.Get("implementationSteps")
	if !steps.IsArray() {
		return nil, invalidStructure("implementationSteps", "required array")
	}

	c := &ComponentBreakdown{
		Name:                    validText(strings.TrimSpace(root.Get("name").String())),
		Description:             validText(root.Get("description").String()),
		SubComponents:           namedItems(root.Get("subComponents"), "sub-component"),
		ImplementationSteps:     []ImplementationStep{},
		TechnicalConsiderations: []TechnicalConsideration{},
		RequiredTechnologies:    []Technology{},
		SuggestedLibraries:      []Library{},
		ThirdPartyServices:      []ThirdPartyService{},
	}

	for _, s := range steps.Array() {
		if !s.IsObject() {
			if scalar(s) != "" {
				c.ImplementationSteps = append(c.ImplementationSteps, ImplementationStep{Step: scalar(s), Notes: []string{}})
			}
			continue
		}
		c.ImplementationSteps = append(c.ImplementationSteps, ImplementationStep{
			Step:        scalar(s.Get("step")),
			Description: scalar(s.Get("description")),
			CodeExample: scalar(s.Get("codeExample")),
			Notes:       stringList(s.Get("notes")),
		})
	}
	for _, t := range objects(root.Get("technicalConsiderations")) {
		c.TechnicalConsiderations = append(c.TechnicalConsiderations, TechnicalConsideration{
			Aspect:     scalar(t.Get("aspect")),
			Details:    scalar(t.Get("details")),
			Mitigation: scalar(t.Get("mitigation")),
		})
	}
	for _, t := range objects(root.Get("requiredTechnologies")) {
		c.RequiredTechnologies = append(c.RequiredTechnologies, Technology{
			Name:         scalar(t.Get("name")),
			Purpose:      scalar(t.Get("purpose")),
			Alternatives: stringList(t.Get("alternatives")),
		})
	}
	for _, l := range objects(root.Get("suggestedLibraries")) {
		c.SuggestedLibraries = append(c.SuggestedLibraries, Library{
			Name:         scalar(l.Get("name")),
			Purpose:      scalar(l.Get("purpose")),
			Installation: scalar(l.Get("installation")),
		})
	}
	for _, s := range objects(root.Get("thirdPartyServices")) {
		c.ThirdPartyServices = append(c.ThirdPartyServices, ThirdPartyService{
			Name:        scalar(s.Get("name")),
			Purpose:     scalar(s.Get("purpose")),
			Integration: scalar(s.Get("integration")),
		})
	}

	return c, nil
}

// Validate checks the invariants of an already typed blueprint, e.g. one
// imported from a JSON export.
func (b *Blueprint) Validate() error {
	if strings.TrimSpace(b.Overview) == "" {
		return invalidStructure("overview", "required")
	}
	for _, key := range PriorityKeys {
		level, _ := b.Priorities.Level(key)
		names := make(map[string]bool)
		for i, c := range level.Frontend.Components {
			if err := checkName(names, c.Name, fmt.Sprintf("priorities.%s.frontend.components[%d]", key, i)); err != nil {
				return err
			}
		}
		names = make(map[string]bool)
		for i, s := range level.Backend.Services {
			if err := checkName(names, s.Name, fmt.Sprintf("priorities.%s.backend.services[%d]", key, i)); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkName(seen map[string]bool, name, path string) error {
	if strings.TrimSpace(name) == "" {
		return invalidStructure(path+".name", "required")
	}
	if seen[name] {
		return invalidStructure(path+".name", "duplicate name "+name)
	}
	seen[name] = true
	return nil
}

func invalidStructure(field, msg string) error {
	return NewError(KindInvalidStructure, "validate schema", &ValidationError{Field: field, Message: msg})
}

// namedItems reads a list of {name, description, requirements} objects.
// Bare strings become names. Blank names are filled in and duplicate
// sibling names are suffixed so every name is a stable key.
func namedItems(r gjson.Result, kind string) []Component {
	items := []Component{}
	if !r.IsArray() {
		return items
	}
	for _, el := range r.Array() {
		switch {
		case el.IsObject():
			items = append(items, Component{
				Name:         scalar(el.Get("name")),
				Description:  scalar(el.Get("description")),
				Requirements: stringList(el.Get("requirements")),
			})
		case scalar(el) != "":
			items = append(items, Component{Name: scalar(el), Requirements: []string{}})
		}
	}

	seen := make(map[string]bool, len(items))
	for i := range items {
		name := strings.TrimSpace(items[i].Name)
		if name == "" {
			name = fmt.Sprintf("Unnamed %s %d", kind, i+1)
		}
		unique := name
		for n := 2; seen[unique]; n++ {
			unique = fmt.Sprintf("%s (%d)", name, n)
		}
		seen[unique] = true
		items[i].Name = unique
	}
	return items
}

// stringList reads an array of scalars. A single string becomes a one-item
// list; anything else becomes an empty list.
func stringList(r gjson.Result) []string {
	out := []string{}
	switch {
	case r.IsArray():
		for _, el := range r.Array() {
			if s := scalar(el); s != "" {
				out = append(out, s)
			}
		}
	case scalar(r) != "":
		out = append(out, scalar(r))
	}
	return out
}

func objects(r gjson.Result) []gjson.Result {
	var out []gjson.Result
	if !r.IsArray() {
		return out
	}
	for _, el := range r.Array() {
		if el.IsObject() {
			out = append(out, el)
		}
	}
	return out
}

// scalar returns the trimmed text of a string, number or boolean value.
func scalar(r gjson.Result) string {
	switch r.Type {
	case gjson.String, gjson.Number, gjson.True, gjson.False:
		return validText(strings.TrimSpace(r.String()))
	}
	return ""
}

// validText replaces invalid UTF-8 sequences so the value survives a JSON
// encode and decode unchanged.
func validText(s string) string {
	return strings.ToValidUTF8(s, "\uFFFD")
}
