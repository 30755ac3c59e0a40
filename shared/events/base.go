package events

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// IntegrationEvent es la capacidad que cumple todo evento de integración:
// identidad, instante del hecho y discriminador de esquema. Son hechos
// inmutables que ya ocurrieron; nunca se modifican después de construirse.
type IntegrationEvent interface {
	EventID() uuid.UUID
	OccurredAt() time.Time
	EventType() string
}

// Envelope es la base embebida por todos los contratos de integración.
// Al embeberse, sus campos se serializan al mismo nivel que el payload
// (formato plano en el wire, sin separación envelope/payload).
//
// Los campos quedan exportados porque encoding/json los necesita en la
// decodificación del consumidor; el contrato de inmutabilidad se apoya en
// la semántica de valor: los eventos se pasan y embeben por valor, se
// construyen solo vía Source/NewEnvelope y no se mutan tras construirse.
type Envelope struct {
	ID   uuid.UUID `json:"event_id"`
	At   time.Time `json:"occurred_at"` // siempre UTC
	Type string    `json:"event_type"`  // formato service.entity.action.vN
}

func (e Envelope) EventID() uuid.UUID    { return e.ID }
func (e Envelope) OccurredAt() time.Time { return e.At }
func (e Envelope) EventType() string     { return e.Type }

// Verificación estática
var _ IntegrationEvent = Envelope{}

// Source construye envelopes con un reloj inyectable (en producción es
// time.Now; en tests un reloj controlado para comprobar monotonicidad).
type Source struct {
	clock func() time.Time
}

// NewSource crea una fábrica de envelopes. Con clock nil usa time.Now.
func NewSource(clock func() time.Time) *Source {
	if clock == nil {
		clock = time.Now
	}
	return &Source{clock: clock}
}

// Envelope construye la base de un evento: EventID y OccurredAt se generan
// siempre aquí, el productor nunca los aporta. El discriminador se valida
// antes de que el valor pueda escapar del servicio productor.
func (s *Source) Envelope(eventType string) (Envelope, error) {
	if err := ValidateEventType(eventType); err != nil {
		return Envelope{}, err
	}
	return Envelope{
		ID:   uuid.New(),
		At:   s.clock().UTC(),
		Type: eventType,
	}, nil
}

var defaultSource = NewSource(nil)

// NewEnvelope es el atajo con el reloj por defecto.
func NewEnvelope(eventType string) (Envelope, error) {
	return defaultSource.Envelope(eventType)
}

// MustEnvelope es para discriminadores constantes conocidos en compilación.
// Un discriminador inválido aquí es un error de programación: fail-fast.
func MustEnvelope(eventType string) Envelope {
	env, err := NewEnvelope(eventType)
	if err != nil {
		panic(fmt.Sprintf("events: invalid event type %q: %v", eventType, err))
	}
	return env
}

// SameOccurrence decide si dos valores representan la misma ocurrencia.
// Solo cuenta el EventID: dos hechos de negocio idénticos siguen siendo
// ocurrencias distintas.
func SameOccurrence(a, b IntegrationEvent) bool {
	return a.EventID() == b.EventID()
}
