package mapper

import (
	"fmt"

	"github.com/nao1215/gedcom7import/internal/model"
)

// idAllocator hands out document-local ids such as I0001 for entities that
// have no xref. Ids taken by xrefs are never handed out.
type idAllocator struct {
	used    map[string]bool
	counter map[model.Kind]int
}

func newIDAllocator() *idAllocator {
	return &idAllocator{
		used:    make(map[string]bool),
		counter: make(map[model.Kind]int),
	}
}

func (a *idAllocator) reserve(id string) {
	a.used[id] = true
}

func (a *idAllocator) next(k model.Kind) string {
	for {
		a.counter[k]++
		id := fmt.Sprintf("%s%04d", k.IDPrefix(), a.counter[k])
		if !a.used[id] {
			a.used[id] = true
			return id
		}
	}
}
