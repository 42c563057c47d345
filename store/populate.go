package store

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/Jakan-Kink/stash-graphql-client/schema"
)

// presenceChecker is implemented by every field.Field/Ref/RefList/
// WrapperList instantiation.
type presenceChecker interface {
	IsUnset() bool
}

type peersProvider interface {
	Peers() []interface{}
}

// populateNode is a field-name tree node: one child per path segment,
// shared across paths with a common prefix. The root's own FieldName is
// unused. Populate's recursion only ever needs a field name plus children,
// so this is a local, single-purpose replacement for a borrowed generic
// tree type.
type populateNode struct {
	FieldName string
	Children  []*populateNode
}

// ParsePopulatePaths builds a field-name tree from a set of dotted populate
// paths (e.g. "studio.parent_studio", "tags").
func ParsePopulatePaths(paths []string) *populateNode {
	root := &populateNode{}
	for _, p := range paths {
		cur := root
		for _, seg := range strings.Split(p, ".") {
			if seg == "" {
				continue
			}
			cur = childNamed(cur, seg)
		}
	}
	return root
}

func childNamed(n *populateNode, seg string) *populateNode {
	for _, c := range n.Children {
		if c.FieldName == seg {
			return c
		}
	}
	child := &populateNode{FieldName: seg}
	n.Children = append(n.Children, child)
	return child
}

// Populate walks paths from self: any segment whose field is Unset (or
// every segment, if force) is fetched via the populator registered for
// (self's type name, field name); deeper segments then recurse into the
// field's loaded peer(s) (spec §4.5, "Populate (field-aware)").
func Populate(ctx context.Context, s *Store, self interface{}, paths []string, force bool) error {
	root := ParsePopulatePaths(paths)
	return s.populateChildren(ctx, self, root, force)
}

func (s *Store) populateChildren(ctx context.Context, self interface{}, node *populateNode, force bool) error {
	for _, child := range node.Children {
		if err := s.populateField(ctx, self, child, force); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) populateField(ctx context.Context, self interface{}, node *populateNode, force bool) error {
	fieldName := node.FieldName
	elem := reflect.ValueOf(self)
	if elem.Kind() == reflect.Ptr {
		elem = elem.Elem()
	}
	tm, err := schema.For(elem.Type())
	if err != nil {
		return err
	}
	if _, ok := tm.Relationships[fieldName]; !ok {
		return fmt.Errorf("store: %s has no relationship field %q", tm.TypeName, fieldName)
	}
	fv := elem.FieldByName(fieldName)
	if !fv.IsValid() {
		return fmt.Errorf("store: %s has no field %q", tm.TypeName, fieldName)
	}

	pc, _ := fv.Interface().(presenceChecker)
	if force || (pc != nil && pc.IsUnset()) {
		fn := s.populatorFor(tm.TypeName, fieldName)
		if fn == nil {
			return fmt.Errorf("store: no populator registered for %s.%s", tm.TypeName, fieldName)
		}
		if err := fn(ctx, s, self); err != nil {
			return err
		}
		// the populator mutates self's field in place via Construct/merge;
		// re-read it for the recursive step below.
		fv = elem.FieldByName(fieldName)
	}

	if len(node.Children) == 0 {
		return nil
	}
	pp, ok := fv.Interface().(peersProvider)
	if !ok {
		return nil
	}
	for _, peer := range pp.Peers() {
		if err := s.populateChildren(ctx, peer, node, force); err != nil {
			return err
		}
	}
	return nil
}
