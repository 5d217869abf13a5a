package composer

import (
	mdwerror "github.com/msto63/leitstand/foundation/core/error"
	"github.com/msto63/leitstand/internal/route"
	"github.com/msto63/leitstand/pkg/core/logging"
)

// Incident describes a failed page render.
type Incident struct {
	ID     string
	Route  route.Route
	Prefix string
	Err    error
}

// Reporter receives failed renders.
type Reporter interface {
	Report(incident Incident)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(incident Incident)

// Report calls f.
func (f ReporterFunc) Report(incident Incident) {
	f(incident)
}

// LogReporter writes incidents to a logger.
type LogReporter struct {
	logger *logging.Logger
}

// NewLogReporter creates a reporter on logger.
func NewLogReporter(logger *logging.Logger) *LogReporter {
	if logger == nil {
		logger = logging.New("composer")
	}
	return &LogReporter{logger: logger}
}

// Report logs the incident as a RENDER_FAILED error.
func (r *LogReporter) Report(incident Incident) {
	cause := incident.Err
	if cause == nil {
		cause = mdwerror.New("unknown render failure")
	}
	err := mdwerror.Wrap(cause, "page render failed").
		WithCode(mdwerror.CodeRenderFailed).
		WithOperation("composer.Render").
		WithDetail("incident", incident.ID).
		WithDetail("path", incident.Route.Path()).
		WithDetail("prefix", incident.Prefix)
	r.logger.LogError(err)
}
