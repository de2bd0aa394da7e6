package normalizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	matchimportdomain "github.com/fanclub-cms/matchdesk/app/modules/matchimport/domain"
)

// ShapeKind names a recognized payload layout.
type ShapeKind string

const (
	ShapeNested ShapeKind = "nested"
	ShapeFlat   ShapeKind = "flat"
	ShapeLegacy ShapeKind = "legacy"
)

// Shape is the closed set of payload layouts. Only this package can add
// variants, and build must handle every one of them.
type Shape interface {
	Kind() ShapeKind
	shape()
}

// NestedShape is {"match": {"teams": {...}, "score": {...}}, "events": {...}, "statistics": {...}}.
type NestedShape struct {
	Root  gjson.Result
	Match gjson.Result
}

// FlatShape keeps score, possession and goals at the root, keyed by team.
type FlatShape struct {
	Root gjson.Result
}

// LegacyShape already carries the canonical fields.
type LegacyShape struct {
	Root gjson.Result
}

func (NestedShape) Kind() ShapeKind { return ShapeNested }
func (FlatShape) Kind() ShapeKind   { return ShapeFlat }
func (LegacyShape) Kind() ShapeKind { return ShapeLegacy }

func (NestedShape) shape() {}
func (FlatShape) shape()   {}
func (LegacyShape) shape() {}

var legacyRequired = []string{"home_team", "away_team", "match_date"}

// detectShape tries the nested, flat and legacy layouts in that order.
func detectShape(root gjson.Result) (Shape, error) {
	if match := root.Get("match"); match.IsObject() && match.Get("teams").Exists() {
		return NestedShape{Root: root, Match: match}, nil
	}
	if root.Get("score").IsObject() {
		return FlatShape{Root: root}, nil
	}

	var missing []string
	for _, field := range legacyRequired {
		if v := root.Get(field); !v.Exists() || v.Type == gjson.Null {
			missing = append(missing, field)
		}
	}
	if len(missing) == 0 {
		return LegacyShape{Root: root}, nil
	}
	return nil, parseErrorf("unrecognized match format: missing %s and no score or match.teams present",
		strings.Join(missing, ", "))
}

// build dispatches a detected shape to its reader.
func (n *Normalizer) build(ctx context.Context, s Shape) (*matchimportdomain.MatchRecord, error) {
	switch s := s.(type) {
	case NestedShape:
		return n.fromNested(ctx, s)
	case FlatShape:
		return n.fromFlat(ctx, s)
	case LegacyShape:
		return n.fromLegacy(ctx, s)
	}
	return nil, fmt.Errorf("unhandled shape %T", s)
}
