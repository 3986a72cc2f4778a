package blueprint

import (
	"fmt"

	"factoriobp.io/internal/protocol"
)

// ValidateOptions selects the semantic checks run by Validate. Structural
// checks happen in Parse and are not repeated here.
type ValidateOptions struct {
	// ActiveIndex requires every book's active_index to address one of its
	// entries, i.e. 0 <= active_index < len(blueprints).
	ActiveIndex bool
	// UniqueEntities requires entity numbers and book entry indexes to be
	// unique within their container.
	UniqueEntities bool
	// References requires circuit wires, copper wires and schedule
	// locomotives to point at entities of the same blueprint.
	References bool
}

func DefaultValidateOptions() ValidateOptions {
	return ValidateOptions{ActiveIndex: true, UniqueEntities: true, References: true}
}

// Validate runs the selected checks and returns a *protocol.ValidationError
// listing every problem, or nil.
func Validate(doc *Document, opts ValidateOptions) error {
	if doc == nil {
		return &protocol.DataError{Msg: "nil document"}
	}
	v := &validator{opts: opts}
	switch {
	case doc.Blueprint != nil && doc.Book != nil:
		return &protocol.DataError{Msg: "document holds both a blueprint and a blueprint book"}
	case doc.Blueprint != nil:
		v.blueprint("/"+protocol.KeyBlueprint, doc.Blueprint)
	case doc.Book != nil:
		v.book("/"+protocol.KeyBlueprintBook, doc.Book)
	default:
		return &protocol.DataError{Msg: "document holds neither a blueprint nor a blueprint book"}
	}
	if len(v.problems) == 0 {
		return nil
	}
	return &protocol.ValidationError{Problems: v.problems}
}

type validator struct {
	opts     ValidateOptions
	problems []protocol.Problem
}

func (v *validator) addf(path, format string, args ...any) {
	v.problems = append(v.problems, protocol.Problem{Path: path, Msg: fmt.Sprintf(format, args...)})
}

func (v *validator) book(path string, b *BlueprintBook) {
	if v.opts.ActiveIndex && (b.ActiveIndex < 0 || b.ActiveIndex >= len(b.Blueprints)) {
		v.addf(path+"/active_index", "active_index %d out of range [0,%d)", b.ActiveIndex, len(b.Blueprints))
	}
	seen := make(map[int]int, len(b.Blueprints))
	for i, e := range b.Blueprints {
		p := fmt.Sprintf("%s/blueprints/%d", path, i)
		if v.opts.UniqueEntities {
			if first, dup := seen[e.Index]; dup {
				v.addf(p+"/index", "index %d already used by entry %d", e.Index, first)
			} else {
				seen[e.Index] = i
			}
		}
		switch {
		case e.Blueprint != nil && e.Book != nil:
			v.addf(p, "entry holds both a blueprint and a blueprint book")
		case e.Blueprint != nil:
			v.blueprint(p+"/"+protocol.KeyBlueprint, e.Blueprint)
		case e.Book != nil:
			v.book(p+"/"+protocol.KeyBlueprintBook, e.Book)
		default:
			v.addf(p, "entry holds neither a blueprint nor a blueprint book")
		}
	}
}

func (v *validator) blueprint(path string, bp *Blueprint) {
	numbers := make(map[int]int, len(bp.Entities))
	for i, e := range bp.Entities {
		if first, dup := numbers[e.EntityNumber]; dup {
			if v.opts.UniqueEntities {
				v.addf(fmt.Sprintf("%s/entities/%d/entity_number", path, i),
					"entity_number %d already used by entity %d", e.EntityNumber, first)
			}
			continue
		}
		numbers[e.EntityNumber] = i
	}
	if !v.opts.References {
		return
	}
	exists := func(n int) bool {
		_, ok := numbers[n]
		return ok
	}
	for i, e := range bp.Entities {
		p := fmt.Sprintf("%s/entities/%d", path, i)
		for j, n := range e.Neighbors {
			np := fmt.Sprintf("%s/neighbours/%d", p, j)
			switch {
			case n == e.EntityNumber:
				v.addf(np, "entity %d lists itself as a neighbour", n)
			case !exists(n):
				v.addf(np, "neighbour %d is not an entity of this blueprint", n)
			}
		}
		for _, id := range sortedConnectorIDs(e.Connections) {
			c := e.Connections[id]
			cp := fmt.Sprintf("%s/connections/%d", p, id)
			v.connectionPoint(cp+"/1", c.First, exists)
			v.connectionPoint(cp+"/2", c.Second, exists)
		}
	}
	for i, s := range bp.Schedules {
		for j, n := range s.Locomotives {
			if !exists(n) {
				v.addf(fmt.Sprintf("%s/schedules/%d/locomotives/%d", path, i, j),
					"locomotive %d is not an entity of this blueprint", n)
			}
		}
	}
}

func (v *validator) connectionPoint(path string, cp *ConnectionPoint, exists func(int) bool) {
	if cp == nil {
		return
	}
	for _, wire := range []struct {
		color string
		data  []ConnectionData
	}{{"red", cp.Red}, {"green", cp.Green}} {
		for k, d := range wire.data {
			if !exists(d.EntityID) {
				v.addf(fmt.Sprintf("%s/%s/%d/entity_id", path, wire.color, k),
					"wire target %d is not an entity of this blueprint", d.EntityID)
			}
		}
	}
}
