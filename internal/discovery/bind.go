package discovery

import (
	"pathgrip/internal/domain"
	"pathgrip/internal/eventbus"
	"pathgrip/internal/logic"
)

// BindStore keeps store in sync with scan and watcher events, publishing
// an IndexChangedEvent after every modification. The returned func
// unsubscribes.
func BindStore(bus eventbus.EventBus, store logic.FileStore) func() {
	changed := func() {
		bus.Publish(domain.IndexChangedEvent{Total: store.Len()})
	}

	unsubs := []func(){
		bus.Subscribe(eventbus.EventScanStarted, func(eventbus.DomainEvent) {
			store.Clear()
			changed()
		}),
		bus.Subscribe(eventbus.EventFilesDiscoveredBatch, func(e eventbus.DomainEvent) {
			if ev, ok := e.(domain.FilesDiscoveredBatchEvent); ok && store.Add(ev.Files...) > 0 {
				changed()
			}
		}),
		bus.Subscribe(eventbus.EventFileCreated, func(e eventbus.DomainEvent) {
			if ev, ok := e.(domain.FileCreatedEvent); ok && store.Add(ev.File) > 0 {
				changed()
			}
		}),
		bus.Subscribe(eventbus.EventFileRemoved, func(e eventbus.DomainEvent) {
			if ev, ok := e.(domain.FileRemovedEvent); ok && store.Remove(ev.Path) > 0 {
				changed()
			}
		}),
	}

	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}
