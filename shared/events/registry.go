package events

import "reflect"

// EventMetadata describe cómo re-materializar un evento del outbox: el
// tipo Go concreto del contrato y el topic al que se publica.
type EventMetadata struct {
	Type  reflect.Type
	Topic string
}

// Registry asocia discriminadores literales con su metadata. Cada contexto
// productor construye el suyo; el relayer trabaja con la unión.
type Registry map[string]EventMetadata

// MergeRegistries une los registros de varios contextos. Un discriminador
// duplicado es un error de cableado: fail-fast.
func MergeRegistries(registries ...Registry) Registry {
	merged := make(Registry)
	for _, r := range registries {
		for eventType, meta := range r {
			if _, dup := merged[eventType]; dup {
				panic("events: duplicate event type in registry: " + eventType)
			}
			merged[eventType] = meta
		}
	}
	return merged
}
