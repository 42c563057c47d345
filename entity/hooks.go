package entity

// PreSaveHook lets an entity type run logic immediately before ToInput is
// built for a save. Optional; mirrors the teacher's db.PreSaveHooker.
type PreSaveHook interface {
	PreSaveHook() error
}

// PostSaveHook lets an entity type react after a save has succeeded and the
// id (if newly created) has been applied, but before mark-clean. Optional;
// mirrors the teacher's db.PostSaveHooker.
type PostSaveHook interface {
	PostSaveHook() error
}
