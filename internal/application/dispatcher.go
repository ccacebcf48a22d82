package application

import "context"

// ActivationEmail is the message handed to the email-dispatch collaborator.
type ActivationEmail struct {
	To        string
	Name      string
	Token     string
	ExpiresAt string
	IsResend  bool
}

// DispatchResult is a structured outcome; dispatch never panics or throws.
type DispatchResult struct {
	Sent bool
	Err  string
}

// Dispatcher delivers activation emails. Implementations must honor the
// context deadline and return a result rather than blocking indefinitely.
type Dispatcher interface {
	SendActivation(ctx context.Context, msg ActivationEmail) DispatchResult
}
