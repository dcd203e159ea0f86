package cookies

import "context"

type contextKeyJar struct{}

// WithJar stores the request jar so handlers share one read-your-writes view.
func WithJar(ctx context.Context, jar Jar) context.Context {
	return context.WithValue(ctx, contextKeyJar{}, jar)
}

// FromContext returns the request jar or nil.
func FromContext(ctx context.Context) Jar {
	jar, _ := ctx.Value(contextKeyJar{}).(Jar)
	return jar
}
