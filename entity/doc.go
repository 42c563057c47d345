/*
Package entity provides the base every entity type embeds: lifecycle
(new/existing), the snapshot-and-dirty tracker, to-input serialization, and
the construction interception hook the store layers on top of.

Grounded on the teacher's db package: the per-instance bookkeeping mirrors
db.TypeMeta/DbFieldMeta's role, and the decision logic of IsDirty,
ChangedFields and ToInput (see ToInput's table in to_input.go) is this module's generalization of db/orm.go's
reflection-driven field iteration (ormFromIntfStruc walking DbFields) onto a
tri-state field model instead of a property-list datastore encoding.

Entities are plain structs embedding entity.Base anonymously and declaring
tracked/relationship fields via the "stash" struct tag (see package schema).
Base cannot know its outer struct's type at embed time, so every entity.Base
method that needs to read sibling fields (IsDirty, ChangedFields, ToInput)
is reached indirectly: Construct records a pointer to the outer struct in
Base's private slot, the same "stable internal state not rebuilt by
assignment" Base keeps snapshot and received-fields in (spec §4.3, §9).
*/
package entity
