package entity

import (
	"fmt"
	"reflect"

	"github.com/Jakan-Kink/stash-graphql-client/schema"
	"github.com/Jakan-Kink/stash-graphql-client/util"
)

// snapshotter is implemented by every field.Field/Ref/RefList/WrapperList
// instantiation: it reduces the field's current value to the stable
// encoding used for dirty comparison (spec §4.3).
type snapshotter interface {
	Snapshot() interface{}
}

// PostConstructHook lets an entity type inject defaults once Construct has
// finished validating and snapshotting it. Optional; mirrors the teacher's
// db.PostLoadHooker.
type PostConstructHook interface {
	PostConstructHook() error
}

// Construct performs spec §4.4's direct construction path: mint a local id
// if absent, initialize snapshot and received-fields. self must be a
// pointer to a struct embedding Base. Identity-map interception (cache hit
// / hoisting) is the store package's responsibility, layered in front of
// this call; Construct itself always produces a fresh instance.
func Construct(self interface{}) error {
	elem, err := structElem(self)
	if err != nil {
		return err
	}
	tm, err := schema.For(elem.Type())
	if err != nil {
		return err
	}
	b, err := baseOf(elem)
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.self = self
	b.typeMeta = tm
	b.mu.Unlock()

	if tm.IDField != "" {
		idField := elem.FieldByName(tm.IDField)
		if idField.Kind() == reflect.String {
			idVal := idField.String()
			if idVal == "" || idVal == legacyNewMarker {
				token, err := util.NewLocalToken()
				if err != nil {
					return fmt.Errorf("entity: minting local id: %w", err)
				}
				if idField.CanSet() {
					idField.SetString(token)
				}
				idVal = token
				b.mu.Lock()
				b.isNew = true
				b.mu.Unlock()
			}
			b.mu.Lock()
			b.id = idVal
			b.mu.Unlock()
		}
	}

	MarkClean(self)

	if hook, ok := self.(PostConstructHook); ok {
		if err := hook.PostConstructHook(); err != nil {
			return err
		}
	}
	return nil
}

// FromPayload constructs self (as Construct does) and additionally records
// received as this instance's received-fields set, using the tracked/
// relationship field names present in the payload. Called by the store
// after a fresh (non-cache-hit) from-payload construction.
func FromPayload(self interface{}, received []string) error {
	if err := Construct(self); err != nil {
		return err
	}
	b, err := baseOf(mustStructElem(self))
	if err != nil {
		return err
	}
	b.markReceived(received)
	return nil
}

func structElem(self interface{}) (reflect.Value, error) {
	rv := reflect.ValueOf(self)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("entity: expected a non-nil pointer to struct, got %T", self)
	}
	return rv.Elem(), nil
}

func mustStructElem(self interface{}) reflect.Value {
	elem, err := structElem(self)
	if err != nil {
		panic(err)
	}
	return elem
}

// baseOf locates the embedded *Base within elem by type, addressing it so
// callers can mutate its private fields.
func baseOf(elem reflect.Value) (*Base, error) {
	baseType := reflect.TypeOf(Base{})
	for i := 0; i < elem.NumField(); i++ {
		sf := elem.Type().Field(i)
		if sf.Anonymous && sf.Type == baseType {
			return elem.Field(i).Addr().Interface().(*Base), nil
		}
	}
	return nil, fmt.Errorf("entity: %v does not embed entity.Base", elem.Type())
}

func snapshotTracked(elem reflect.Value, tm *schema.TypeMeta) map[string]interface{} {
	out := make(map[string]interface{}, len(tm.Tracked))
	for _, name := range tm.Tracked {
		fv := elem.FieldByName(name)
		if !fv.IsValid() {
			continue
		}
		if s, ok := fv.Interface().(snapshotter); ok {
			out[name] = s.Snapshot()
		}
	}
	return out
}
