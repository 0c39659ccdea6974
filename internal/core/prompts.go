package core

import (
	"fmt"
	"strings"
)

// BlueprintSchema is the exact JSON shape the model must return for a blueprint.
const BlueprintSchema = `{
  "overview": "Two or three sentences describing the product and its core value",
  "priorities": {
    "p0": {
      "frontend": {
        "components": [
          {
            "name": "Component name",
            "description": "What the component does",
            "requirements": ["Key requirement"]
          }
        ]
      },
      "backend": {
        "services": [
          {
            "name": "Service name",
            "description": "What the service does",
            "requirements": ["Key requirement"]
          }
        ],
        "dataModel": ["Entity: field, field, field"]
      }
    },
    "p1": { "frontend": { "components": [] }, "backend": { "services": [], "dataModel": [] } },
    "p2": { "frontend": { "components": [] }, "backend": { "services": [], "dataModel": [] } }
  },
  "developmentSteps": [
    {
      "phase": "Phase title",
      "priority": "p0",
      "tasks": ["Concrete task"]
    }
  ]
}`

// BlueprintPromptTemplate is rendered with the idea, depth, focus area and schema.
const BlueprintPromptTemplate = `You are a senior software architect. Turn the product idea below into a technical blueprint.

Product idea: %s
Breakdown depth: %d
Focus area: %s

Prioritise the work:
- p0: the minimum needed for a working first release
- p1: important features that follow the first release
- p2: nice-to-haves and polish

Every priority level MUST contain "frontend" and "backend" objects, even when a list is empty.
Component and service names MUST be unique within their list.

Format your response as a valid JSON object with this structure:
%s

Rules:
%s`

// ComponentPromptTemplate is rendered with the fields of a ComponentRequest.
const ComponentPromptTemplate = `Provide a detailed breakdown for the %s (%s) component with %s priority.

Component Description: %s
Requirements: %s

Format your response as a valid JSON object with this structure:
{
  "name": %q,
  "description": "A more detailed description of the component",
  "subComponents": [
    {
      "name": "Sub-component name",
      "description": "Brief description of the sub-component",
      "requirements": ["List of key requirements for the sub-component"]
    }
  ],
  "implementationSteps": [
    {
      "step": "Step title",
      "description": "Detailed step description",
      "codeExample": "Code example if applicable",
      "notes": ["Important implementation notes"]
    }
  ],
  "technicalConsiderations": [
    {
      "aspect": "Technical aspect title",
      "details": "Detailed explanation",
      "mitigation": "How to address this consideration"
    }
  ],
  "requiredTechnologies": [
    {
      "name": "Technology name",
      "purpose": "Why this technology is needed",
      "alternatives": ["Alternative options"]
    }
  ],
  "suggestedLibraries": [
    {
      "name": "Library name",
      "purpose": "What this library helps with",
      "installation": "Install command"
    }
  ],
  "thirdPartyServices": [
    {
      "name": "Service name",
      "purpose": "What this service provides",
      "integration": "How to integrate this service"
    }
  ]
}

Rules:
%s`

// baseRules are shared by every prompt. Order is part of the rendered output.
var baseRules = []string{
	"Response must be ONLY the JSON object, no other text and no markdown fences",
	"Ensure all code examples are properly escaped",
	"Focus on practical, actionable steps",
	"%s",
	"Provide real library names and versions",
	"Include error handling considerations",
	"Consider both development and production environments",
}

// renderRules numbers the rules, filling the stack-specific slot.
func renderRules(stackRule string) string {
	var sb strings.Builder
	for i, rule := range baseRules {
		if strings.Contains(rule, "%s") {
			rule = fmt.Sprintf(rule, stackRule)
		}
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, rule))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// BuildBlueprintPrompt renders the instruction for a blueprint request.
// The output is a pure function of req.
func BuildBlueprintPrompt(req GenerationRequest) string {
	req = req.Normalize()
	focus := req.Focus()
	if focus == "" {
		focus = "none (cover the whole product)"
	}
	return fmt.Sprintf(
		BlueprintPromptTemplate,
		req.Idea,
		req.Depth,
		focus,
		BlueprintSchema,
		renderRules("Name concrete frameworks, tools and hosted services for each component and service"),
	)
}

// BuildComponentPrompt renders the instruction for a component exploration request.
func BuildComponentPrompt(req ComponentRequest) string {
	return fmt.Sprintf(
		ComponentPromptTemplate,
		req.ComponentName,
		req.Type,
		strings.ToUpper(req.Priority),
		req.Description,
		strings.Join(req.Requirements, ", "),
		req.ComponentName,
		renderRules(stackRuleFor(req.Type)),
	)
}

func stackRuleFor(componentType string) string {
	switch strings.ToLower(strings.TrimSpace(componentType)) {
	case "frontend":
		return "Include specific frontend framework and UI library implementation details"
	case "backend":
		return "Include specific backend framework, API and storage implementation details"
	}
	return fmt.Sprintf("Include specific implementation details for a %s component", componentType)
}
