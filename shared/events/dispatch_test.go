package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func v1OnlyDecoders(handled *[]uuid.UUID) *DecoderSet {
	d := NewDecoderSet()
	Register(d, CourseCreatedV1Type, func(ctx context.Context, evt CourseCreatedV1) error {
		*handled = append(*handled, evt.CourseID)
		return nil
	})
	return d
}

// Un consumidor configurado solo para v1 recibe un v2: outcome skipped y
// el procesamiento del resto del lote continúa.
func TestDispatch_UnknownVersionIsSkippedNotFatal(t *testing.T) {
	var handled []uuid.UUID
	decoders := v1OnlyDecoders(&handled)

	batch := [][]byte{
		mustMarshal(t, NewCourseCreatedV1(uuid.New(), "Curso A")),
		mustMarshal(t, NewCourseCreatedV2(uuid.New(), "Curso B", "devops")), // versión no implementada
		mustMarshal(t, NewCourseCreatedV1(uuid.New(), "Curso C")),
	}

	outcomes := make([]Outcome, 0, len(batch))
	for _, payload := range batch {
		outcome, err := decoders.Dispatch(context.Background(), payload)
		require.NoError(t, err)
		outcomes = append(outcomes, outcome)
	}

	assert.Equal(t, []Outcome{OutcomeHandled, OutcomeSkipped, OutcomeHandled}, outcomes)
	assert.Len(t, handled, 2)
}

func TestDispatch_MalformedPayload(t *testing.T) {
	decoders := v1OnlyDecoders(&[]uuid.UUID{})

	// No es JSON.
	outcome, err := decoders.Dispatch(context.Background(), []byte("not json"))
	assert.Equal(t, OutcomeMalformed, outcome)
	assert.Error(t, err)

	// JSON con discriminador que no cumple el formato.
	outcome, err = decoders.Dispatch(context.Background(), []byte(`{"event_type":"course.created"}`))
	assert.Equal(t, OutcomeMalformed, outcome)
	assert.ErrorIs(t, err, ErrEventTypeSegments)
}

func TestDispatch_HandlerFailure(t *testing.T) {
	boom := errors.New("downstream caído")
	decoders := NewDecoderSet()
	Register(decoders, AccessGrantedV1Type, func(ctx context.Context, evt AccessGrantedV1) error {
		return boom
	})

	outcome, err := decoders.Dispatch(context.Background(), mustMarshal(t, NewAccessGrantedV1(uuid.New(), uuid.New())))
	assert.Equal(t, OutcomeFailed, outcome)
	assert.ErrorIs(t, err, boom)
}

func TestRegister_PanicsOnMalformedDiscriminator(t *testing.T) {
	decoders := NewDecoderSet()
	assert.Panics(t, func() {
		Register(decoders, "course.created", func(ctx context.Context, evt CourseCreatedV1) error { return nil })
	})
}

func TestDecoderSet_RegisteredAndTypes(t *testing.T) {
	var handled []uuid.UUID
	decoders := v1OnlyDecoders(&handled)

	assert.True(t, decoders.Registered(CourseCreatedV1Type))
	assert.False(t, decoders.Registered(CourseCreatedV2Type))
	assert.Equal(t, []string{CourseCreatedV1Type}, decoders.Types())
}

func mustMarshal(t *testing.T, v interface{}) []byte {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}
