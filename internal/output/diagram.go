package output

import (
	"fmt"
	"math"

	"github.com/dhabedank/idea-blueprint/internal/core"
)

// Node types in the architecture diagram.
const (
	NodeFrontend = "frontend"
	NodeBackend  = "backend"
	NodeDatabase = "database"
)

// DiagramRadius is the radius of the circle nodes are initially placed on.
const DiagramRadius = 200.0

// Node is one box of the architecture diagram.
type Node struct {
	ID       string  `json:"id"` // Structural path of the source item
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Priority string  `json:"priority"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// Edge connects two nodes by ID.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph is the architecture diagram derived from a blueprint.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Diagram derives a node graph from b. Within each priority level every
// frontend component connects to every backend service, and every service
// connects to the level's data model.
func Diagram(b *core.Blueprint) Graph {
	g := Graph{Nodes: []Node{}, Edges: []Edge{}}

	for _, key := range core.PriorityKeys {
		level, _ := b.Priorities.Level(key)

		var frontends, backends []string
		for i, c := range level.Frontend.Components {
			id := fmt.Sprintf("%s.frontend.components[%d]", key, i)
			g.Nodes = append(g.Nodes, Node{ID: id, Name: c.Name, Type: NodeFrontend, Priority: key})
			frontends = append(frontends, id)
		}
		for i, s := range level.Backend.Services {
			id := fmt.Sprintf("%s.backend.services[%d]", key, i)
			g.Nodes = append(g.Nodes, Node{ID: id, Name: s.Name, Type: NodeBackend, Priority: key})
			backends = append(backends, id)
		}
		database := ""
		if len(level.Backend.DataModel) > 0 {
			database = key + ".backend.dataModel"
			g.Nodes = append(g.Nodes, Node{ID: database, Name: fmt.Sprintf("%s Data Model", key), Type: NodeDatabase, Priority: key})
		}

		for _, f := range frontends {
			for _, s := range backends {
				g.Edges = append(g.Edges, Edge{ID: f + "-" + s, Source: f, Target: s})
			}
		}
		if database != "" {
			for _, s := range backends {
				g.Edges = append(g.Edges, Edge{ID: s + "-" + database, Source: s, Target: database})
			}
		}
	}

	total := len(g.Nodes)
	for i := range g.Nodes {
		angle := float64(i) / float64(total) * 2 * math.Pi
		g.Nodes[i].X = DiagramRadius * math.Cos(angle)
		g.Nodes[i].Y = DiagramRadius * math.Sin(angle)
	}
	return g
}
