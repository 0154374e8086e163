package planner

import (
	"strings"

	"github.com/me/nemoflow/pkg/model"
)

// Marker is the placeholder token substituted into path templates with a
// task's concrete input-pattern value.
const Marker = "{ip}"

// Resolve substitutes every occurrence of Marker in template with value.
// Templates without the marker are returned unchanged: many config paths
// are static. A template that carries the marker requires a non-empty
// value; resolving it with an empty one is a config error.
func Resolve(template, value string) (string, error) {
	if !strings.Contains(template, Marker) {
		return template, nil
	}
	if value == "" {
		return "", model.NewConfigError("placeholder value is empty", model.FieldError{
			Field:   template,
			Message: "template contains " + Marker + " but no value was resolvable",
		})
	}
	return strings.ReplaceAll(template, Marker, value), nil
}

// HasMarker reports whether template contains the placeholder marker.
func HasMarker(template string) bool {
	return strings.Contains(template, Marker)
}
