package events

import "sort"

// ResourceType es el vocabulario compartido de recursos formativos.
//
// Regla de gobernanza (no mecánica): una constante entra aquí solo si la
// referencian los contratos de 3 o más servicios desplegados de forma
// independiente. El conjunto es append-only: añadir es retrocompatible;
// renombrar o cambiar el valor de una constante ya transmitida, no.
type ResourceType string

const (
	ResourceCourse      ResourceType = "course"      // catalog, enrollment, analytics
	ResourceLesson      ResourceType = "lesson"      // catalog, progress, analytics
	ResourceQuiz        ResourceType = "quiz"        // catalog, grading, progress
	ResourceCertificate ResourceType = "certificate" // enrollment, grading, notifications
	ResourceForumThread ResourceType = "forum-thread" // community, moderation, notifications
)

var resourceTypes = map[ResourceType]struct{}{
	ResourceCourse:      {},
	ResourceLesson:      {},
	ResourceQuiz:        {},
	ResourceCertificate: {},
	ResourceForumThread: {},
}

// KnownResourceType comprueba si un string pertenece al vocabulario.
func KnownResourceType(s string) bool {
	_, ok := resourceTypes[ResourceType(s)]
	return ok
}

// ResourceTypes devuelve una copia ordenada del vocabulario; el registro
// interno es de solo lectura durante toda la vida del proceso.
func ResourceTypes() []ResourceType {
	out := make([]ResourceType, 0, len(resourceTypes))
	for rt := range resourceTypes {
		out = append(out, rt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
