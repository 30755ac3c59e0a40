package domain

import (
	"reflect"

	sharedEvents "github.com/davicafu/campuslab/shared/events"
)

const CatalogTopic = "catalog-events"

// NewEventRegistry declara los contratos que este contexto produce y el
// topic por el que salen. El relayer lo usa para re-materializar el shape
// concreto desde la fila de outbox.
func NewEventRegistry() sharedEvents.Registry {
	return sharedEvents.Registry{
		sharedEvents.CourseCreatedV1Type: {
			Type:  reflect.TypeOf(sharedEvents.CourseCreatedV1{}),
			Topic: CatalogTopic,
		},
		sharedEvents.CourseCreatedV2Type: {
			Type:  reflect.TypeOf(sharedEvents.CourseCreatedV2{}),
			Topic: CatalogTopic,
		},
		sharedEvents.CourseArchivedV1Type: {
			Type:  reflect.TypeOf(sharedEvents.CourseArchivedV1{}),
			Topic: CatalogTopic,
		},
	}
}
