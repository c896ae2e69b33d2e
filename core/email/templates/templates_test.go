package templates_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promomark/website/core/email/templates"
)

type greeting struct {
	Name string
}

func greetingView(m greeting) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<p>Hello "+templ.EscapeString(m.Name)+"</p>")
		return err
	})
}

func newRegistry() *templates.Registry {
	return templates.NewRegistry(map[string]templates.Factory{
		"greeting": templates.Typed(greetingView),
		"broken": func(any) (templ.Component, error) {
			return templ.ComponentFunc(func(context.Context, io.Writer) error {
				return errors.New("boom")
			}), nil
		},
	})
}

func TestRegistry_Render(t *testing.T) {
	t.Parallel()

	r := newRegistry()

	html, err := r.Render(context.Background(), "greeting", greeting{Name: "Ana <3"})
	require.NoError(t, err)
	assert.Equal(t, "<p>Hello Ana &lt;3</p>", html)

	html, err = r.Render(context.Background(), "greeting", &greeting{Name: "Ivo"})
	require.NoError(t, err)
	assert.Equal(t, "<p>Hello Ivo</p>", html)
}

func TestRegistry_Errors(t *testing.T) {
	t.Parallel()

	r := newRegistry()

	_, err := r.Render(context.Background(), "missing", greeting{})
	assert.ErrorIs(t, err, templates.ErrTemplateNotFound)
	assert.ErrorContains(t, err, `"missing"`)

	_, err = r.Render(context.Background(), "greeting", "not a greeting")
	assert.ErrorIs(t, err, templates.ErrInvalidModel)

	_, err = r.Render(context.Background(), "greeting", (*greeting)(nil))
	assert.ErrorIs(t, err, templates.ErrInvalidModel)

	_, err = r.Render(context.Background(), "broken", nil)
	assert.ErrorContains(t, err, "boom")
}

func TestRegistry_IsolatedConcurrentRenders(t *testing.T) {
	t.Parallel()

	r := newRegistry()
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name := fmt.Sprintf("user%d", i)
			html, err := r.Render(context.Background(), "greeting", greeting{Name: name})
			assert.NoError(t, err)
			assert.Equal(t, "<p>Hello "+name+"</p>", html)
		}()
	}
	wg.Wait()
}

func TestRegistry_Names(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"broken", "greeting"}, newRegistry().Names())
}

func TestRender_NilComponent(t *testing.T) {
	t.Parallel()

	_, err := templates.Render(context.Background(), nil)
	assert.ErrorIs(t, err, templates.ErrInvalidModel)
}
