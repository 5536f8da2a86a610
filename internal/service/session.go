package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/airenas/hello-form/internal/api"
	"github.com/airenas/hello-form/internal/dom"
	"github.com/airenas/hello-form/internal/form"
	"github.com/airenas/hello-form/internal/loop"
	"github.com/airenas/hello-form/internal/utils"
	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"
)

type WsConn interface {
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
	WriteJSON(v interface{}) error
}

// PageHandler serves page sessions, one per websocket connection
type PageHandler struct {
	doc     *dom.Document
	greeter form.Greeter
	diag    form.Diagnostics
	policy  form.Policy
	hooks   []dom.ReadyHook
	queue   int
}

// NewPageHandler creates handler, hooks run when a page reports ready
func NewPageHandler(doc *dom.Document, greeter form.Greeter, diag form.Diagnostics, policy form.Policy,
	hooks []dom.ReadyHook) (*PageHandler, error) {
	if doc == nil {
		return nil, fmt.Errorf("no doc")
	}
	if greeter == nil {
		return nil, fmt.Errorf("no greeter")
	}
	if diag == nil {
		return nil, fmt.Errorf("no diag")
	}
	if _, ok := doc.Fields(form.FormID); !ok {
		return nil, fmt.Errorf("no form '%s' in page", form.FormID)
	}
	goapp.Log.Info().Str("policy", string(policy)).Int("hooks", len(hooks)).Msg("Page handler")
	return &PageHandler{doc: doc, greeter: greeter, diag: diag, policy: policy, hooks: hooks, queue: 16}, nil
}

// HandleConnection runs one page session until the connection or ctx closes
func (ph *PageHandler) HandleConnection(ctx context.Context, conn WsConn) error {
	defer conn.Close()
	ctx, sd := utils.SessionContext(ctx)
	sd.ID = ulid.Make().String()
	goapp.Log.Info().Str("session", sd.ID).Msg("page connected")

	ctx, cancelF := context.WithCancel(ctx)
	defer cancelF()

	l := loop.New(ph.queue)
	go l.Run(ctx)

	page := dom.NewPage(ph.doc, &wsSink{conn: conn})
	h, err := form.NewHandler(ph.greeter, page, l, ph.diag, ph.policy)
	if err != nil {
		return err
	}
	if err := h.Bind(ctx, page); err != nil {
		return err
	}
	for _, hook := range ph.hooks {
		page.OnReady(hook)
	}

	readCh := readEvents(ctx, conn)
events:
	for {
		select {
		case <-ctx.Done():
			goapp.Log.Info().Msg("context canceled")
			break events
		case ev, ok := <-readCh:
			if !ok {
				break events
			}
			if !l.Post(func() {
				if err := page.Dispatch(ev); err != nil {
					goapp.Log.Warn().Err(err).Str("session", sd.ID).Str("type", ev.Type).Msg("can't dispatch")
				}
			}) {
				break events
			}
		}
	}
	cancelF()
	<-l.Done()
	goapp.Log.Info().Str("session", sd.ID).Msg("page disconnected")
	return nil
}

type wsSink struct {
	lock sync.Mutex
	conn WsConn
}

func (s *wsSink) Send(cmd *api.Command) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.conn.WriteJSON(cmd)
}

func readEvents(ctx context.Context, in WsConn) <-chan *api.Event {
	resCh := make(chan *api.Event)
	go func() {
		defer close(resCh)
		defer goapp.Log.Debug().Msg("read routine ended")
		for {
			mType, message, err := in.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure, websocket.CloseGoingAway) ||
					errors.Is(err, net.ErrClosed) {
					goapp.Log.Info().Msg("connection closed")
					return
				}
				goapp.Log.Error().Err(err).Send()
				return
			}
			if mType != websocket.TextMessage {
				continue
			}
			ev := &api.Event{}
			if err := json.Unmarshal(message, ev); err != nil {
				goapp.Log.Warn().Err(err).Msg("bad event")
				continue
			}
			select {
			case resCh <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return resCh
}
