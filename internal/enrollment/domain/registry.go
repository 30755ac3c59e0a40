package domain

import (
	"reflect"

	sharedEvents "github.com/davicafu/campuslab/shared/events"
)

const EnrollmentTopic = "enrollment-events"

// NewEventRegistry declara los contratos que este contexto produce.
func NewEventRegistry() sharedEvents.Registry {
	return sharedEvents.Registry{
		sharedEvents.AccessGrantedV1Type: {
			Type:  reflect.TypeOf(sharedEvents.AccessGrantedV1{}),
			Topic: EnrollmentTopic,
		},
		sharedEvents.AccessRevokedV1Type: {
			Type:  reflect.TypeOf(sharedEvents.AccessRevokedV1{}),
			Topic: EnrollmentTopic,
		},
	}
}
