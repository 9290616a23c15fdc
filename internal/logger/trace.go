package logger

import "context"

type traceKey struct{}

// TraceContext identifies the fetch run an entry belongs to.
type TraceContext struct {
	RunID string
	Model string
}

// ContextWithTrace stores trace in ctx. Structured entries logged with the
// returned context carry run_id and model fields.
func ContextWithTrace(ctx context.Context, trace TraceContext) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, traceKey{}, trace)
}

// TraceFromContext returns the trace stored in ctx, or the zero value.
func TraceFromContext(ctx context.Context) TraceContext {
	if ctx == nil {
		return TraceContext{}
	}
	trace, _ := ctx.Value(traceKey{}).(TraceContext)
	return trace
}

func traceFieldsFromContext(ctx context.Context) []Field {
	t := TraceFromContext(ctx)
	fields := make([]Field, 0, 2)
	if t.RunID != "" {
		fields = append(fields, String("run_id", t.RunID))
	}
	if t.Model != "" {
		fields = append(fields, String("model", t.Model))
	}
	return fields
}
