/*
Copyright 2018 Corentin Chary

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package metrics

import (
	"github.com/opentracing/opentracing-go"
	"golang.org/x/net/context"
)

// TracerMetrics base tracer object for all readers
type TracerMetrics struct {
	tracer opentracing.Tracer
}

// SetTracer set the trace object
func (r *TracerMetrics) SetTracer(t opentracing.Tracer) {
	r.tracer = t
}

// GetSpan get a span from the context
func (r *TracerMetrics) GetSpan(name string, ctx context.Context) (opentracing.Span, func()) {
	var parentCtx opentracing.SpanContext
	parentSpan := opentracing.SpanFromContext(ctx)
	if parentSpan != nil {
		parentCtx = parentSpan.Context()
	}

	if r.tracer == nil && parentSpan != nil {
		return parentSpan, func() {}
	}

	tracer := r.tracer
	if tracer == nil {
		// global default is a noop
		tracer = opentracing.GlobalTracer()
	}
	span := tracer.StartSpan(name, opentracing.ChildOf(parentCtx))
	span.SetTag("span.kind", "server")
	span.SetTag("component", "graphite-datadog-metrics")

	return span, func() { span.Finish() }
}
