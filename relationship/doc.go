/*
Package relationship implements spec §4.6's bidirectional relationship
engine on top of the store's construction protocol and field's generic
Ref/RefList/WrapperList types: in-memory add/remove/set helpers, and
inverse-sync-on-assignment (mirroring an assignment onto a peer's own
relationship field, but only when that field is already loaded — syncing
an Unset peer field would require a fetch, which a setter must never do).

Like store, relationship never learns a relationship field's concrete peer
type E as a reflect.Type; it drives every peer mutation through the same
PeerType/Peers/SetFromPeer(s) duck interfaces field/peer.go exports, keyed
off schema.RelationshipMeta at runtime instead of a compile-time type
parameter. This mirrors the teacher's db package, which drove property
load/save purely off DbFieldMeta built from struct tags rather than
per-type generated code.
*/
package relationship
