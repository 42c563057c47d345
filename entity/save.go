package entity

import (
	"context"
	"fmt"

	"github.com/Jakan-Kink/stash-graphql-client/transport"
	"github.com/Jakan-Kink/stash-graphql-client/zerror"
)

// UpdateID replaces self's id exactly once, clearing is-new. Calling it a
// second time is a no-op (spec §4.4: "replaces the id exactly once").
func UpdateID(self interface{}, serverID string) error {
	elem := mustStructElem(self)
	b, err := baseOf(elem)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.saved {
		return nil
	}
	if b.typeMeta != nil && b.typeMeta.IDField != "" {
		if fv := elem.FieldByName(b.typeMeta.IDField); fv.IsValid() && fv.CanSet() {
			fv.SetString(serverID)
		}
	}
	b.id = serverID
	b.saved = true
	return nil
}

// Save is the thin orchestrator spec §4.4 prescribes: build the input via
// ToInput, call createOp (new) or updateOp (existing), apply the server id
// on create, and mark-clean on success. createOp/updateOp and idResultKey
// are supplied by the per-entity operation catalog this module treats as
// an external caller; entity itself owns none of those names.
func Save(ctx context.Context, self interface{}, t transport.Transport, createOp, updateOp, idResultKey string) (err error) {
	defer zerror.OnErrorf(1, &err, "saving %T", self)

	if hook, ok := self.(PreSaveHook); ok {
		if err = hook.PreSaveHook(); err != nil {
			return err
		}
	}
	input, err := ToInput(self)
	if err != nil {
		return err
	}

	isNew := IsNew(self)
	op := updateOp
	if isNew {
		op = createOp
	}
	var result map[string]interface{}
	if err = t.Execute(ctx, op, map[string]interface{}{"input": input}, &result); err != nil {
		return &zerror.Transport{Operation: op, Cause: err}
	}
	if isNew {
		id, _ := result[idResultKey].(string)
		if id == "" {
			return fmt.Errorf("entity: create operation %q did not return %q", op, idResultKey)
		}
		if err = UpdateID(self, id); err != nil {
			return err
		}
	}
	if hook, ok := self.(PostSaveHook); ok {
		if err = hook.PostSaveHook(); err != nil {
			return err
		}
	}
	MarkClean(self)
	return nil
}

// Delete invokes destroyOp with the entity's id. Store eviction is the
// caller's responsibility (entity does not import store, to keep the
// dependency order leaf-first).
func Delete(ctx context.Context, self interface{}, t transport.Transport, destroyOp string) (err error) {
	defer zerror.OnErrorf(1, &err, "deleting %T", self)
	elem := mustStructElem(self)
	b, err := baseOf(elem)
	if err != nil {
		return err
	}
	b.mu.Lock()
	id := b.id
	b.mu.Unlock()
	return t.Execute(ctx, destroyOp, map[string]interface{}{"id": id}, nil)
}

// IsNew is a package-level convenience equal to self's Base.IsNew(), usable
// without the caller holding a typed *Base reference.
func IsNew(self interface{}) bool {
	elem := mustStructElem(self)
	b, err := baseOf(elem)
	if err != nil {
		return false
	}
	return b.IsNew()
}
