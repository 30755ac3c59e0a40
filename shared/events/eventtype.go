package events

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Errores de formato del discriminador.
var (
	ErrEmptyEventType    = errors.New("event type is empty")
	ErrEventTypeSegments = errors.New("event type must have exactly four dot-separated segments")
	ErrEventTypeVersion  = errors.New("event type version must be v<positive integer>")
)

// EventType es el discriminador parseado: service.entity.action.vN.
// Identifica de forma única y permanente UN esquema de wire; un cambio
// incompatible se publica bajo una versión nueva, nunca mutando el
// significado de un tipo existente.
type EventType struct {
	Service string
	Entity  string
	Action  string
	Version int
}

// ParseEventType valida y descompone un discriminador. Es una función pura:
// sin estado externo, idempotente, sin efectos.
func ParseEventType(s string) (EventType, error) {
	if s == "" {
		return EventType{}, ErrEmptyEventType
	}

	segments := strings.Split(s, ".")
	if len(segments) != 4 {
		return EventType{}, fmt.Errorf("%w: %q has %d", ErrEventTypeSegments, s, len(segments))
	}
	for _, seg := range segments {
		if seg == "" {
			return EventType{}, fmt.Errorf("%w: %q has an empty segment", ErrEventTypeSegments, s)
		}
	}

	version, err := parseVersion(segments[3])
	if err != nil {
		return EventType{}, fmt.Errorf("%w: %q", ErrEventTypeVersion, s)
	}

	return EventType{
		Service: segments[0],
		Entity:  segments[1],
		Action:  segments[2],
		Version: version,
	}, nil
}

// ValidateEventType acepta o rechaza un discriminador candidato.
func ValidateEventType(s string) error {
	_, err := ParseEventType(s)
	return err
}

// parseVersion exige la forma canónica vN con N >= 1: solo dígitos tras
// la v (Atoi a solas admitiría signos, "v+1" no es canónico) y sin ceros
// a la izquierda ("v01" tampoco lo es).
func parseVersion(seg string) (int, error) {
	if len(seg) < 2 || seg[0] != 'v' {
		return 0, ErrEventTypeVersion
	}
	digits := seg[1:]
	if digits[0] == '0' {
		return 0, ErrEventTypeVersion
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, ErrEventTypeVersion
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 {
		return 0, ErrEventTypeVersion
	}
	return n, nil
}

// String reconstruye el discriminador canónico.
func (t EventType) String() string {
	return fmt.Sprintf("%s.%s.%s.v%d", t.Service, t.Entity, t.Action, t.Version)
}

// Name devuelve la terna sin versión, útil para agrupar versiones que
// conviven durante una ventana de migración.
func (t EventType) Name() string {
	return fmt.Sprintf("%s.%s.%s", t.Service, t.Entity, t.Action)
}

// WithVersion construye el discriminador hermano con otra versión
// (dual-publish durante migraciones).
func (t EventType) WithVersion(n int) EventType {
	t.Version = n
	return t
}
