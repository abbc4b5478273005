// Package hydrate converts raw JSON payloads into the structured documents
// stores materialize from.
package hydrate

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Context carries identifiers tied to a payload.
type Context struct {
	Domain string
	Scope  string
}

// PreHook lets callers mutate or normalise the document after decoding and
// before it is handed to the store.
type PreHook func(Context, map[string]any) (map[string]any, error)

// DecoderOption configures a Decoder instance.
type DecoderOption func(*Decoder)

// Decoder converts JSON payloads into documents.
type Decoder struct {
	preHooks     []PreHook
	configureDec []func(*json.Decoder)
}

// WithPreHook applies hook to the decoded document.
func WithPreHook(hook PreHook) DecoderOption {
	return func(d *Decoder) {
		d.preHooks = append(d.preHooks, hook)
	}
}

// WithUseNumber enables json.Decoder.UseNumber during decoding so numeric
// scalars survive without float64 coercion.
func WithUseNumber() DecoderOption {
	return func(d *Decoder) {
		d.configureDec = append(d.configureDec, func(dec *json.Decoder) {
			dec.UseNumber()
		})
	}
}

// WithDecoderConfig allows callers to configure the json.Decoder directly.
func WithDecoderConfig(configure func(*json.Decoder)) DecoderOption {
	return func(d *Decoder) {
		if configure != nil {
			d.configureDec = append(d.configureDec, configure)
		}
	}
}

func NewDecoder(opts ...DecoderOption) *Decoder {
	d := &Decoder{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Decode converts payload into a document applying configured hooks.
func (d *Decoder) Decode(ctx Context, payload []byte) (map[string]any, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("hydrate: payload is empty for domain %q", ctx.Domain)
	}

	decoder := json.NewDecoder(bytes.NewReader(payload))
	for _, configure := range d.configureDec {
		if configure != nil {
			configure(decoder)
		}
	}
	var current map[string]any
	if err := decoder.Decode(&current); err != nil {
		return nil, fmt.Errorf("hydrate: decode domain %q: %w", ctx.Domain, err)
	}

	for _, hook := range d.preHooks {
		if hook == nil {
			continue
		}
		next, err := hook(ctx, current)
		if err != nil {
			return nil, fmt.Errorf("hydrate: pre-hook for domain %q failed: %w", ctx.Domain, err)
		}
		if next != nil {
			current = next
		}
	}

	return current, nil
}
