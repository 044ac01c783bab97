package server

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topolayout/pkg/errors"
	"github.com/matzehuels/topolayout/pkg/layout"
	"github.com/matzehuels/topolayout/pkg/layout/tick"
	"github.com/matzehuels/topolayout/pkg/observability"
)

// subscriberBuffer is how many messages a slow websocket may lag behind
// before messages to it are dropped.
const subscriberBuffer = 16

// Message is one websocket message. Exactly one of Frame and Event is set.
type Message struct {
	Type  string        `json:"type"`
	Frame *tick.Frame   `json:"frame,omitempty"`
	Event *layout.Event `json:"event,omitempty"`
}

// Message types.
const (
	MessageFrame = "frame"
	MessageEvent = "event"
)

type subscriber struct {
	ch chan []byte
}

// view owns one layout.Graph. Every access to the graph, and to subs, runs on
// the goroutine started by run.
type view struct {
	id         string
	topologyID string
	created    time.Time

	graph    *layout.Graph
	subs     map[*subscriber]struct{}
	cmds     chan func()
	interval time.Duration
	logger   *log.Logger

	quit chan struct{}
	done chan struct{}
}

func newView(id, topologyID string, interval time.Duration, logger *log.Logger) *view {
	return &view{
		id:         id,
		topologyID: topologyID,
		created:    time.Now(),
		subs:       make(map[*subscriber]struct{}),
		cmds:       make(chan func()),
		interval:   interval,
		logger:     logger.With("view", id),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// OnEvent implements layout.Observer. It is called on the view goroutine.
func (v *view) OnEvent(e layout.Event) {
	v.broadcast(Message{Type: MessageEvent, Event: &e})
}

// run is the view goroutine. It applies commands in arrival order and
// advances the simulation once per interval while it is warm.
func (v *view) run() {
	defer close(v.done)
	ticker := time.NewTicker(v.interval)
	defer ticker.Stop()

	for {
		select {
		case fn := <-v.cmds:
			fn()
		case <-ticker.C:
			if !v.graph.Active() {
				continue
			}
			frame, _ := v.graph.Tick()
			if len(v.subs) > 0 {
				v.broadcast(Message{Type: MessageFrame, Frame: &frame})
			}
		case <-v.quit:
			for s := range v.subs {
				close(s.ch)
			}
			clear(v.subs)
			return
		}
	}
}

// do runs fn on the view goroutine and waits for it.
func (v *view) do(ctx context.Context, command string, fn func(g *layout.Graph) error) error {
	start := time.Now()
	errc := make(chan error, 1)
	task := func() { errc <- fn(v.graph) }

	var err error
	select {
	case v.cmds <- task:
		select {
		case err = <-errc:
		case <-v.done:
			err = errViewClosed(v.id)
		}
	case <-v.done:
		err = errViewClosed(v.id)
	case <-ctx.Done():
		err = ctx.Err()
	}
	observability.View().OnCommand(ctx, v.id, command, time.Since(start), err)
	return err
}

// stop ends the view goroutine and waits for it.
func (v *view) stop() {
	select {
	case <-v.quit:
	default:
		close(v.quit)
	}
	<-v.done
}

func (v *view) subscribe(ctx context.Context) (*subscriber, error) {
	s := &subscriber{ch: make(chan []byte, subscriberBuffer)}
	err := v.do(ctx, "subscribe", func(g *layout.Graph) error {
		v.subs[s] = struct{}{}
		// Prime the new subscriber with the current frame.
		frame := g.Frame()
		v.send(s, Message{Type: MessageFrame, Frame: &frame})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (v *view) unsubscribe(s *subscriber) {
	_ = v.do(context.Background(), "unsubscribe", func(*layout.Graph) error {
		if _, ok := v.subs[s]; ok {
			delete(v.subs, s)
			close(s.ch)
		}
		return nil
	})
}

func (v *view) broadcast(m Message) {
	for s := range v.subs {
		v.send(s, m)
	}
}

func (v *view) send(s *subscriber, m Message) {
	data, err := json.Marshal(m)
	if err != nil {
		v.logger.Error("encode message", "error", err)
		return
	}
	select {
	case s.ch <- data:
	default:
		v.logger.Debug("dropping message for slow subscriber", "type", m.Type)
	}
}

func errViewClosed(id string) error {
	return errors.New(errors.ErrCodeViewNotFound, "view %s is closed", id)
}
