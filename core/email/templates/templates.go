package templates

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/a-h/templ"
)

var (
	// ErrTemplateNotFound is returned for names missing from the registry.
	ErrTemplateNotFound = errors.New("email template not found")
	// ErrInvalidModel is returned when a model does not match the template's type.
	ErrInvalidModel = errors.New("invalid email template model")
)

// Render renders a templ component into a string.
func Render(ctx context.Context, component templ.Component) (string, error) {
	if component == nil {
		return "", fmt.Errorf("%w: nil component", ErrInvalidModel)
	}
	var sb strings.Builder
	if err := component.Render(ctx, &sb); err != nil {
		return "", fmt.Errorf("render email template: %w", err)
	}
	return sb.String(), nil
}

// Factory builds the component for a template from an untyped model.
type Factory func(model any) (templ.Component, error)

// Typed adapts a component constructor taking T into a Factory.
// Both T and *T (non-nil) models are accepted.
func Typed[T any](fn func(T) templ.Component) Factory {
	return func(model any) (templ.Component, error) {
		switch m := model.(type) {
		case T:
			return fn(m), nil
		case *T:
			if m != nil {
				return fn(*m), nil
			}
		}
		var zero T
		return nil, fmt.Errorf("%w: expected %T, got %T", ErrInvalidModel, zero, model)
	}
}

// Registry resolves template names to components. It is read-only after
// construction and safe for concurrent use.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates a registry from name to factory.
func NewRegistry(factories map[string]Factory) *Registry {
	return &Registry{factories: maps.Clone(factories)}
}

// Render builds the named template with model and returns the HTML.
// Every call renders into its own buffer with only ctx as ambient state.
func (r *Registry) Render(ctx context.Context, name string, model any) (string, error) {
	factory, ok := r.factories[name]
	if !ok || factory == nil {
		return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	component, err := factory(model)
	if err != nil {
		return "", fmt.Errorf("template %q: %w", name, err)
	}
	return Render(ctx, component)
}

// Names lists the registered template names in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.factories))
}
