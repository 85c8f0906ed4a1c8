package service

import (
	"fmt"

	"github.com/cloo-solutions/simsearch/internal/domain"
)

// BindEntities pairs each entity with the collection for its module,
// preserving entity order.
func BindEntities(entities []Entity, collections map[domain.Module]RecordCollection) ([]CollectionBinding, error) {
	bindings := make([]CollectionBinding, 0, len(entities))
	for _, e := range entities {
		coll, ok := collections[e.Module]
		if !ok || coll == nil {
			return nil, domain.NewDomainErrorWithCause(domain.ErrCodeNotFound, domain.ErrUnknownModule.Message,
				fmt.Errorf("no collection for module %q", e.Module))
		}
		bindings = append(bindings, CollectionBinding{Entity: e, Collection: coll})
	}
	return bindings, nil
}
