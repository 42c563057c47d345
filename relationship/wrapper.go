package relationship

import (
	"fmt"
	"reflect"

	"github.com/Jakan-Kink/stash-graphql-client/store"
)

type peerTyped interface {
	PeerType() reflect.Type
}

type settableWrappers interface {
	SetFromWrappers(peers []interface{}, metas []interface{}) error
}

// DecodeComplexObject implements spec §4.6's complex_object read strategy:
// each item is a flat map mixing the peer's own fields with this
// relationship's own metadata fields (e.g. a description string).
// metaFields names the Go struct fields of the wrapper's metadata type, so
// they can be split out before the remainder is hoisted as the peer
// payload through the same construction-interception protocol every other
// relationship field uses.
func DecodeComplexObject(s *store.Store, addr interface{}, items []map[string]interface{}, metaFields []string) error {
	pt, ok := addr.(peerTyped)
	if !ok {
		return fmt.Errorf("relationship: target does not support PeerType")
	}
	peerType := pt.PeerType()
	if peerType.Kind() == reflect.Ptr {
		peerType = peerType.Elem()
	}

	metaSet := make(map[string]bool, len(metaFields))
	for _, f := range metaFields {
		metaSet[f] = true
	}

	peers := make([]interface{}, 0, len(items))
	metas := make([]interface{}, 0, len(items))
	for _, item := range items {
		peerPayload := make(map[string]interface{}, len(item))
		meta := make(map[string]interface{}, len(metaFields))
		for k, v := range item {
			if metaSet[k] {
				meta[k] = v
			} else {
				peerPayload[k] = v
			}
		}
		peer, err := s.ConstructDynamic(peerType, peerPayload)
		if err != nil {
			return err
		}
		peers = append(peers, peer)
		metas = append(metas, meta)
	}

	setter, ok := addr.(settableWrappers)
	if !ok {
		return fmt.Errorf("relationship: target does not support SetFromWrappers")
	}
	return setter.SetFromWrappers(peers, metas)
}
