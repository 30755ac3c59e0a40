package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
)

// Outcome es el resultado de despachar un payload entrante.
type Outcome int

const (
	// OutcomeHandled: había decoder registrado y el handler terminó bien.
	OutcomeHandled Outcome = iota
	// OutcomeSkipped: discriminador válido pero sin decoder (versión o tipo
	// desconocidos). NO es un error: es el estado normal durante una
	// migración rolling y el consumidor sigue con el resto del lote.
	OutcomeSkipped
	// OutcomeMalformed: el payload no es JSON o el discriminador no cumple
	// el formato de cuatro segmentos.
	OutcomeMalformed
	// OutcomeFailed: el handler registrado devolvió error.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeHandled:
		return "handled"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeMalformed:
		return "malformed"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// DecoderSet asocia discriminadores literales con su decodificación y
// handler. El consumidor registra SOLO las versiones que implementa; todo
// lo demás se salta sin abortar el lote.
type DecoderSet struct {
	decoders map[string]func(ctx context.Context, payload []byte) error
}

func NewDecoderSet() *DecoderSet {
	return &DecoderSet{decoders: make(map[string]func(context.Context, []byte) error)}
}

// Register asocia un shape concreto a su discriminador. Registrar un
// discriminador malformado es un error de programación: fail-fast.
func Register[T IntegrationEvent](d *DecoderSet, eventType string, handle func(ctx context.Context, evt T) error) {
	if err := ValidateEventType(eventType); err != nil {
		panic(fmt.Sprintf("events: cannot register decoder for %q: %v", eventType, err))
	}
	d.decoders[eventType] = func(ctx context.Context, payload []byte) error {
		var evt T
		if err := json.Unmarshal(payload, &evt); err != nil {
			return fmt.Errorf("decode %s: %w", eventType, err)
		}
		return handle(ctx, evt)
	}
}

// Registered indica si hay decoder para un discriminador literal.
func (d *DecoderSet) Registered(eventType string) bool {
	_, ok := d.decoders[eventType]
	return ok
}

// Types devuelve los discriminadores registrados, ordenados.
func (d *DecoderSet) Types() []string {
	out := make([]string, 0, len(d.decoders))
	for t := range d.decoders {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// peek lee solo el envelope para seleccionar decoder sin decodificar el
// payload completo.
type peek struct {
	EventType string `json:"event_type"`
}

// Dispatch selecciona el decoder por el discriminador literal del payload.
// Devuelve error solo con OutcomeMalformed (payload irrecuperable) o
// OutcomeFailed (el handler falló); OutcomeSkipped nunca lleva error.
func (d *DecoderSet) Dispatch(ctx context.Context, payload []byte) (Outcome, error) {
	var p peek
	if err := json.Unmarshal(payload, &p); err != nil {
		return OutcomeMalformed, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if err := ValidateEventType(p.EventType); err != nil {
		return OutcomeMalformed, err
	}

	decode, ok := d.decoders[p.EventType]
	if !ok {
		return OutcomeSkipped, nil
	}
	if err := decode(ctx, payload); err != nil {
		return OutcomeFailed, err
	}
	return OutcomeHandled, nil
}
