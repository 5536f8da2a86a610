package dom

import (
	"errors"
	"fmt"
	"sync"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/airenas/hello-form/internal/api"
)

// Sink delivers commands to the browser
type Sink interface {
	Send(*api.Command) error
}

// SinkFunc adapts a function to Sink
type SinkFunc func(*api.Command) error

// Send implements Sink
func (f SinkFunc) Send(cmd *api.Command) error {
	return f(cmd)
}

// SubmitEvent is a form submission coming from the page
type SubmitEvent struct {
	Form      string
	fields    map[string]string
	prevented bool
}

// NewSubmitEvent creates an event with the current field values
func NewSubmitEvent(form string, fields map[string]string) *SubmitEvent {
	return &SubmitEvent{Form: form, fields: fields}
}

// PreventDefault stops the native form navigation
func (e *SubmitEvent) PreventDefault() {
	e.prevented = true
}

// DefaultPrevented reports whether PreventDefault was called
func (e *SubmitEvent) DefaultPrevented() bool {
	return e.prevented
}

// Value returns the field value as typed, empty string for an absent field
func (e *SubmitEvent) Value(name string) string {
	return e.fields[name]
}

// SubmitListener handles submissions of a form
type SubmitListener func(*SubmitEvent)

// ReadyHook is run once after the page is mounted
type ReadyHook func(*Page) error

// Page is the server side mirror of one browser page.
// Mutations change the mirror and are sent to the browser as commands.
type Page struct {
	lock      sync.Mutex
	doc       *Document
	sink      Sink
	listeners map[string][]SubmitListener
	hooks     []ReadyHook
	mounted   bool
}

// NewPage creates a page over its own copy of doc
func NewPage(doc *Document, sink Sink) *Page {
	return &Page{doc: doc.Clone(), sink: sink, listeners: map[string][]SubmitListener{}}
}

// OnSubmit binds listener to submissions of form
func (p *Page) OnSubmit(form string, listener SubmitListener) error {
	p.lock.Lock()
	defer p.lock.Unlock()
	if _, ok := p.doc.forms[form]; !ok {
		return fmt.Errorf("no form '%s'", form)
	}
	p.listeners[form] = append(p.listeners[form], listener)
	return nil
}

// OnReady registers a hook to run on Mount
func (p *Page) OnReady(hook ReadyHook) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.hooks = append(p.hooks, hook)
}

// Mount runs ready hooks in registration order. Only the first call has effect.
func (p *Page) Mount() error {
	p.lock.Lock()
	if p.mounted {
		p.lock.Unlock()
		return nil
	}
	p.mounted = true
	hooks := append([]ReadyHook(nil), p.hooks...)
	p.lock.Unlock()

	var errs []error
	for i, h := range hooks {
		if err := h(p); err != nil {
			goapp.Log.Error().Err(err).Int("hook", i).Msg("ready hook failed")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Mounted reports whether Mount was called
func (p *Page) Mounted() bool {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.mounted
}

// Dispatch routes a browser event
func (p *Page) Dispatch(ev *api.Event) error {
	switch ev.Type {
	case api.EventReady:
		return p.Mount()
	case api.EventSubmit:
		return p.submit(ev)
	}
	return fmt.Errorf("unknown event '%s'", ev.Type)
}

func (p *Page) submit(ev *api.Event) error {
	p.lock.Lock()
	_, ok := p.doc.forms[ev.Form]
	listeners := append([]SubmitListener(nil), p.listeners[ev.Form]...)
	p.lock.Unlock()
	if !ok {
		return fmt.Errorf("no form '%s'", ev.Form)
	}

	se := NewSubmitEvent(ev.Form, ev.Fields)
	for _, l := range listeners {
		l(se)
	}
	if !se.DefaultPrevented() {
		goapp.Log.Debug().Str("form", ev.Form).Msg("submit not prevented, navigating")
		return p.sink.Send(&api.Command{Op: api.OpNavigate, Target: ev.Form})
	}
	return nil
}

// SetText replaces the text content of element id
func (p *Page) SetText(id, text string) error {
	if err := p.mutate(id, func(e *Element) { e.Text = text }); err != nil {
		return err
	}
	return p.sink.Send(&api.Command{Op: api.OpSetText, Target: id, Text: text})
}

// RemoveClass drops class from element id
func (p *Page) RemoveClass(id, class string) error {
	if err := p.mutate(id, func(e *Element) {
		res := e.Classes[:0]
		for _, c := range e.Classes {
			if c != class {
				res = append(res, c)
			}
		}
		e.Classes = res
	}); err != nil {
		return err
	}
	return p.sink.Send(&api.Command{Op: api.OpRemoveClass, Target: id, Class: class})
}

// AddClass adds class to element id
func (p *Page) AddClass(id, class string) error {
	if err := p.mutate(id, func(e *Element) {
		if !e.HasClass(class) {
			e.Classes = append(e.Classes, class)
		}
	}); err != nil {
		return err
	}
	return p.sink.Send(&api.Command{Op: api.OpAddClass, Target: id, Class: class})
}

// InitWidget asks the browser to create a third party widget inside element target
func (p *Page) InitWidget(widget, target string, options map[string]any) error {
	if _, ok := p.Element(target); !ok {
		return fmt.Errorf("no element '%s'", target)
	}
	return p.sink.Send(&api.Command{Op: api.OpInitWidget, Widget: widget, Target: target, Options: options})
}

// Parent returns the id of the parent of element id
func (p *Page) Parent(id string) (string, error) {
	e, ok := p.Element(id)
	if !ok {
		return "", fmt.Errorf("no element '%s'", id)
	}
	if e.Parent == "" {
		return "", fmt.Errorf("parent of '%s' has no id", id)
	}
	return e.Parent, nil
}

// Element returns a snapshot of element id
func (p *Page) Element(id string) (*Element, bool) {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.doc.Element(id)
}

func (p *Page) mutate(id string, f func(*Element)) error {
	p.lock.Lock()
	defer p.lock.Unlock()
	e, ok := p.doc.elements[id]
	if !ok {
		return fmt.Errorf("no element '%s'", id)
	}
	f(e)
	return nil
}
