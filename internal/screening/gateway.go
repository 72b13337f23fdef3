package screening

import "context"

// Gateway abstracts the external LLM call, the engine's only network
// dependency. Implementations own their retry policy; the engine treats
// each call as all-or-nothing and expects failures to be *GatewayError.
type Gateway interface {
	Evaluate(ctx context.Context, prompt string) (string, error)
}

// GatewayFunc adapts a plain function to the Gateway interface, mainly for
// tests and stubs.
type GatewayFunc func(ctx context.Context, prompt string) (string, error)

func (f GatewayFunc) Evaluate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
