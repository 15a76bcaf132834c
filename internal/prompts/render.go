package prompts

import (
	"context"
	"errors"
	"os"
)

// DefaultScript is the built-in sales script used when no stored prompt
// resolves for a lead.
const DefaultScript = "Hi ${contact}, this is Sarah from SalesCaller. I hope I'm catching you at a good time. " +
	"I wanted to reach out because I noticed ${company} might benefit from our AI-powered outbound calling " +
	"solution that's been helping companies increase their sales productivity by over 40%. " +
	"Would you be interested in learning more?"

// Renderer resolves a named prompt and substitutes ${var} placeholders.
//
// Resolution order: the named prompt, then the stored "default" prompt,
// then the built-in DefaultScript. Unknown placeholders expand to the
// empty string rather than failing a dial.
type Renderer struct {
	store Store
}

func NewRenderer(store Store) *Renderer {
	return &Renderer{store: store}
}

func (r *Renderer) Render(ctx context.Context, name string, vars map[string]string) (string, error) {
	tmpl := DefaultScript

	if r.store != nil {
		if name != "" {
			text, ok, err := r.store.Get(ctx, name)
			switch {
			case err != nil && !errors.Is(err, ErrInvalidName):
				return "", err
			case ok:
				tmpl = text
			}
		}
		if tmpl == DefaultScript && name != "default" {
			if text, ok, err := r.store.Get(ctx, "default"); err != nil {
				return "", err
			} else if ok {
				tmpl = text
			}
		}
	}

	return os.Expand(tmpl, func(key string) string {
		return vars[key]
	}), nil
}
