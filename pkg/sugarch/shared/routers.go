package shared

import (
	"github.com/v4ner/sugarch-utilities/pkg/sugarch/activity"
)

// routers holds one activity router per logical version.
var routers = NewInstances[string, *activity.Router]()

// Router returns the process-wide activity router for the given version,
// creating it on first acquisition. Every caller passing the same
// version gets the same instance.
func Router(version string) *activity.Router {
	return routers.Acquire(version, func() *activity.Router {
		return activity.NewRouter()
	})
}

// Versions returns the versions a router has been acquired for.
func Versions() []string {
	return routers.Keys()
}
