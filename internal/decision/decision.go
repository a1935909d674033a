// Package decision abstracts a human-in-the-loop choice: the caller presents
// a titled prompt with labeled options, suspends, and resumes with exactly one
// selected value or ErrCancelled. The gateway performs no business logic.
package decision

import (
	"context"
	"errors"
)

// ErrCancelled reports that the operator dismissed the prompt without picking
// an option. It is a normal declined-path outcome, not a system failure.
var ErrCancelled = errors.New("decision cancelled")

type Emphasis string

const (
	EmphasisPrimary   Emphasis = "primary"
	EmphasisDanger    Emphasis = "danger"
	EmphasisSecondary Emphasis = "secondary"
)

type Option struct {
	Label    string
	Value    string
	Emphasis Emphasis
}

type Prompt struct {
	Title   string
	Message string
	Options []Option
}

//go:generate mockgen -source=decision.go -destination=gateway_mock.go -package=decision

// Gateway presents prompts to the operator. Callers must not issue a second
// Ask while one is outstanding; decisions are serialized per session.
type Gateway interface {
	Ask(ctx context.Context, p Prompt) (string, error)
}
