// Package rules implements the access-rule evaluation engine: it parses
// nested requirement expressions into condition trees and evaluates them
// against the host's collected state.
package rules

import (
	"fmt"

	"github.com/Gtaray/sanctuary-randomizer/types"
)

// Parse builds an access-condition tree from a nested requirement list.
// Token semantics, preserved exactly:
//
//   - a bare string is a leaf predicate reference, resolved now (not at
//     evaluation time) so configuration errors surface at load;
//   - an "AND"/"OR" token changes the operation applied to the next
//     sub-group; a leading marker also becomes the tree's own operation;
//   - a nested list recurses into a sub-tree. A sub-group without its own
//     leading marker inherits the enclosing pending operation; sub-groups
//     default to AND otherwise.
//
// An empty list yields a vacuous always-true node. A single-string list is a
// leaf shortcut that skips operand construction entirely.
func Parse(tokens []any, reg Registry) (*types.AccessCondition, error) {
	node := &types.AccessCondition{Op: types.OpNone}
	if len(tokens) == 0 {
		return node, nil
	}
	if len(tokens) == 1 {
		if s, ok := tokens[0].(string); ok && !isMarker(s) {
			return leaf(s, reg)
		}
	}

	node.Op = types.OpAnd
	current := types.OpAnd
	for i, tok := range tokens {
		switch t := tok.(type) {
		case string:
			if op, ok := markerOp(t); ok {
				current = op
				if i == 0 {
					node.Op = op
				}
				continue
			}
			l, err := leaf(t, reg)
			if err != nil {
				return nil, err
			}
			node.Operands = append(node.Operands, l)
		case []any:
			sub, err := Parse(t, reg)
			if err != nil {
				return nil, err
			}
			if len(sub.Operands) > 0 && !hasLeadingMarker(t) {
				sub.Op = current
			}
			node.Operands = append(node.Operands, sub)
		default:
			return nil, fmt.Errorf("requirement token %v (%T) is neither a name nor a list", tok, tok)
		}
	}
	return node, nil
}

// HasAccess evaluates a condition tree against collected state. A nil tree or
// a node with no operands and no predicate grants access.
func HasAccess(c *types.AccessCondition, s types.CollectedState, player int) bool {
	if c == nil {
		return true
	}
	if c.Predicate != nil {
		return c.Predicate(s, player)
	}
	if len(c.Operands) == 0 {
		return true
	}
	if c.Op == types.OpOr {
		for _, op := range c.Operands {
			if HasAccess(op, s, player) {
				return true
			}
		}
		return false
	}
	for _, op := range c.Operands {
		if !HasAccess(op, s, player) {
			return false
		}
	}
	return true
}

func leaf(name string, reg Registry) (*types.AccessCondition, error) {
	pred, err := reg.Resolve(name)
	if err != nil {
		return nil, err
	}
	return &types.AccessCondition{
		Op:            types.OpNone,
		PredicateName: name,
		Predicate:     pred,
	}, nil
}

func markerOp(s string) (types.Operation, bool) {
	switch s {
	case "AND":
		return types.OpAnd, true
	case "OR":
		return types.OpOr, true
	}
	return types.OpNone, false
}

func isMarker(s string) bool {
	_, ok := markerOp(s)
	return ok
}

func hasLeadingMarker(tokens []any) bool {
	if len(tokens) == 0 {
		return false
	}
	s, ok := tokens[0].(string)
	return ok && isMarker(s)
}
