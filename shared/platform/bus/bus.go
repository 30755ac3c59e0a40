package bus

import "context"

// Keyer lo implementan los contratos que fijan su clave de partición
// (curso o usuario, según el contexto) para preservar el orden por entidad.
type Keyer interface {
	PartitionKey() string
}

// EventPublisher publica un evento ya tipado; el topic y el formato del
// payload los decide cada adapter (kafka o el bus en memoria).
type EventPublisher interface {
	Publish(ctx context.Context, event interface{}) error
}
