package form

import (
	"context"
	"fmt"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/airenas/hello-form/internal/api"
	"github.com/airenas/hello-form/internal/dom"
	"github.com/airenas/hello-form/internal/utils"
)

const (
	// FormID is the id of the greeting form on the page
	FormID = "example-app"
	// GreetingID is the element receiving the greeting text, its parent is revealed
	GreetingID = "welcomeMessage"
	// HiddenClass hides the greeting container until the first greeting
	HiddenClass = "hidden"

	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
)

// Greeter calls the greeting endpoint
type Greeter interface {
	SayHello(context.Context, *api.UserData) (*api.GreetingResponse, error)
}

// View is the part of the page the handler writes to
type View interface {
	SetText(id, text string) error
	RemoveClass(id, class string) error
	Parent(id string) (string, error)
}

// Scheduler runs continuations on the page loop
type Scheduler interface {
	Post(func()) bool
}

// Diagnostics receives outcomes
type Diagnostics interface {
	Failure(ctx context.Context, detail string)
	Success(ctx context.Context, greeting string)
	Dropped(ctx context.Context, policy, reason string)
	Started()
	Finished()
}

// Handler is bound to the greeting form submission.
// Submit and the continuations run on the page loop, so seq and pending need no lock.
type Handler struct {
	greeter Greeter
	view    View
	sched   Scheduler
	diag    Diagnostics
	policy  Policy

	seq     uint64
	pending int
}

// NewHandler creates the form handler
func NewHandler(greeter Greeter, view View, sched Scheduler, diag Diagnostics, policy Policy) (*Handler, error) {
	if greeter == nil {
		return nil, fmt.Errorf("no greeter")
	}
	if view == nil {
		return nil, fmt.Errorf("no view")
	}
	if sched == nil {
		return nil, fmt.Errorf("no scheduler")
	}
	if diag == nil {
		return nil, fmt.Errorf("no diagnostics")
	}
	if _, err := ParsePolicy(string(policy)); err != nil {
		return nil, err
	}
	if policy == "" {
		policy = PolicyConcurrent
	}
	return &Handler{greeter: greeter, view: view, sched: sched, diag: diag, policy: policy}, nil
}

// Bind attaches the handler to the form of page
func (h *Handler) Bind(ctx context.Context, page *dom.Page) error {
	return page.OnSubmit(FormID, func(e *dom.SubmitEvent) {
		h.Submit(ctx, e)
	})
}

// Submit handles one submission. It returns before the request completes.
func (h *Handler) Submit(ctx context.Context, e *dom.SubmitEvent) {
	e.PreventDefault()

	data := &api.UserData{FirstName: e.Value(FieldFirstName), LastName: e.Value(FieldLastName)}
	if h.policy == PolicySingle && h.pending > 0 {
		h.diag.Dropped(ctx, string(h.policy), "request pending")
		return
	}
	h.seq++
	h.pending++
	id := h.seq
	goapp.Log.Debug().Str("session", utils.SessionID(ctx)).Uint64("submission", id).Msg("submit")

	h.diag.Started()
	// the page going away does not cancel an issued request
	reqCtx := context.WithoutCancel(ctx)
	go func() {
		res, err := h.greeter.SayHello(reqCtx, data)
		h.diag.Finished()
		if !h.sched.Post(func() { h.complete(ctx, id, res, err) }) {
			goapp.Log.Debug().Str("session", utils.SessionID(ctx)).Uint64("submission", id).Msg("page closed, result discarded")
		}
	}()
}

// Pending returns the number of requests not yet completed
func (h *Handler) Pending() int {
	return h.pending
}

func (h *Handler) complete(ctx context.Context, id uint64, res *api.GreetingResponse, err error) {
	h.pending--
	if h.policy == PolicyLatest && id != h.seq {
		h.diag.Dropped(ctx, string(h.policy), "stale result")
		return
	}
	if err != nil {
		h.diag.Failure(ctx, err.Error())
		return
	}
	h.show(ctx, res.Text())
}

func (h *Handler) show(ctx context.Context, greeting string) {
	if err := h.view.SetText(GreetingID, greeting); err != nil {
		goapp.Log.Error().Err(err).Str("session", utils.SessionID(ctx)).Msg("can't set greeting")
		return
	}
	container, err := h.view.Parent(GreetingID)
	if err != nil {
		goapp.Log.Error().Err(err).Msg("can't find greeting container")
		return
	}
	if err := h.view.RemoveClass(container, HiddenClass); err != nil {
		goapp.Log.Error().Err(err).Str("session", utils.SessionID(ctx)).Msg("can't reveal greeting")
		return
	}
	h.diag.Success(ctx, greeting)
}
