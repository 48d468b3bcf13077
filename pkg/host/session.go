package host

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/strand-dev/strand/pkg/engine"
	"github.com/strand-dev/strand/pkg/vdom"
)

// Session is one page load: an engine instance plus the websocket that
// keeps its document live.
type Session struct {
	ID string

	host   *Host
	app    *engine.App
	logger *slog.Logger

	mu      sync.Mutex
	conn    *websocket.Conn
	pending []vdom.Patch
	seq     uint64

	send chan []byte
	done chan struct{}

	created  time.Time
	lastSeen atomic.Int64
	attached atomic.Bool
	closed   atomic.Bool
}

// newSession builds a session and mounts its engine. The engine performs
// the first render during Mount; no patch frame is emitted for it because
// the first paint ships as HTML.
func newSession(h *Host) *Session {
	s := &Session{
		ID:      uuid.NewString(),
		host:    h,
		send:    make(chan []byte, 64),
		done:    make(chan struct{}),
		created: time.Now(),
	}
	s.logger = h.logger.With("session", s.ID[:8])
	s.touch()

	applier := vdom.NewApplier(s.queueOps)
	s.app = engine.New(applier, engine.WithLogger(s.logger))
	s.app.Bus().Subscribe(engine.EventPatch, s.emitFrame)
	s.app.Mount(h.def, h.props, nil)

	return s
}

// App exposes the session's engine, primarily for tests and host tooling.
func (s *Session) App() *engine.App {
	return s.app
}

func (s *Session) touch() {
	s.lastSeen.Store(time.Now().UnixNano())
}

// idle reports how long the session has gone without client activity.
func (s *Session) idle() time.Duration {
	return time.Since(time.Unix(0, s.lastSeen.Load()))
}

// queueOps is the applier sink. One unit of work may patch several
// instances; their ops accumulate here until the engine signals the end
// of the patch boundary.
func (s *Session) queueOps(ops []vdom.Patch) {
	s.mu.Lock()
	s.pending = append(s.pending, ops...)
	s.mu.Unlock()
}

// emitFrame runs on the engine's patch notification and turns everything
// queued since the last boundary into a single patch frame.
func (s *Session) emitFrame(any) {
	s.mu.Lock()
	ops := s.pending
	s.pending = nil
	if len(ops) == 0 {
		s.mu.Unlock()
		return
	}
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	// Inserted and replacement subtrees travel as rendered HTML.
	for i := range ops {
		if ops[i].Node != nil {
			html, err := s.host.renderer.RenderToString(ops[i].Node)
			if err != nil {
				s.logger.Error("render patch html", "error", err)
				continue
			}
			ops[i].HTML = html
		}
	}

	data, err := EncodeFrame(Frame{Type: FramePatch, Seq: seq, Ops: ops})
	if err != nil {
		s.logger.Error("encode patch frame", "error", err)
		return
	}
	s.enqueue(data)
	s.host.metrics.recordPatchFrame(len(ops))
}

// enqueue hands a message to the write pump without blocking the engine.
// A client that cannot keep up loses frames and must reload.
func (s *Session) enqueue(data []byte) {
	if s.closed.Load() {
		return
	}
	select {
	case s.send <- data:
	default:
		s.logger.Warn("send buffer full, dropping frame")
		s.host.metrics.recordWSError("backpressure")
	}
}

// sendError reports a problem to the client.
func (s *Session) sendError(message string) {
	data, err := EncodeFrame(Frame{Type: FrameError, Message: message})
	if err != nil {
		return
	}
	s.enqueue(data)
}

// attach binds a websocket to the session and starts the write pump.
// The caller runs the read loop.
func (s *Session) attach(conn *websocket.Conn) {
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
	s.attached.Store(true)
	s.touch()
	go s.writeLoop(conn)
}

// readLoop reads frames from the client until the connection drops.
func (s *Session) readLoop(conn *websocket.Conn) {
	defer s.Close()

	for {
		conn.SetReadDeadline(time.Now().Add(s.host.readTimeout))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
				s.host.metrics.recordWSError("read")
			}
			return
		}
		s.touch()

		frame, err := DecodeFrame(msg)
		if err != nil {
			s.logger.Error("frame decode error", "error", err)
			s.sendError("invalid frame")
			continue
		}

		switch frame.Type {
		case FrameEvent:
			s.handleEvent(frame.Event)
		case FramePing:
			if data, err := EncodeFrame(Frame{Type: FramePong}); err == nil {
				s.enqueue(data)
			}
		case FramePong:
			// Client answered our keepalive.
		default:
			s.logger.Warn("unknown frame type", "type", frame.Type)
		}
	}
}

// writeLoop drains the send channel onto the connection and keeps the
// connection alive with periodic pings.
func (s *Session) writeLoop(conn *websocket.Conn) {
	ticker := time.NewTicker(s.host.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case data, ok := <-s.send:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(s.host.writeTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.logger.Error("write error", "error", err)
				s.host.metrics.recordWSError("write")
				s.Close()
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(s.host.writeTimeout))
			if data, err := EncodeFrame(Frame{Type: FramePing}); err == nil {
				if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
					s.Close()
					return
				}
			}
		case <-s.done:
			return
		}
	}
}

// handleEvent routes one document event into the engine as a unit of work.
func (s *Session) handleEvent(p *EventPayload) {
	dom := p.DOMEvent()
	start := time.Now()
	status := "ok"

	var span trace.Span
	if s.host.tracer != nil {
		_, span = s.host.tracer.Start(context.Background(), "strand.event."+dom.Type,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("strand.session_id", s.ID),
				attribute.String("strand.event_type", dom.Type),
				attribute.String("strand.event_target", dom.HID),
			),
		)
		defer span.End()
	}

	thunk := s.handlerFor(dom.HID, dom.Type)
	if thunk == nil {
		// The element may have been patched away between the client's
		// event and its arrival here.
		s.logger.Debug("no handler for event", "hid", dom.HID, "event", dom.Type)
		status = "unhandled"
	} else {
		func() {
			defer func() {
				if r := recover(); r != nil {
					status = "panic"
					s.logger.Error("handler panic", "hid", dom.HID, "event", dom.Type, "panic", r)
					s.sendError("internal error")
				}
			}()
			thunk.Call(dom)
		}()
	}

	if span != nil {
		if status == "panic" {
			span.SetStatus(codes.Error, "handler panic")
		} else {
			span.SetAttributes(attribute.String("strand.status", status))
		}
	}
	s.host.metrics.recordEvent(dom.Type, status, time.Since(start).Seconds())
}

// handlerFor finds the thunk bound to the given element and event in the
// current tree. Handlers are looked up fresh on every event, so thunks
// from a superseded render are never invoked.
func (s *Session) handlerFor(hid, name string) *engine.Thunk {
	prop := "on" + name
	var thunk *engine.Thunk
	vdom.Walk(s.app.RootNode(), func(n *vdom.VNode) {
		if thunk != nil || n.HID != hid {
			return
		}
		if t, ok := n.Props[prop].(*engine.Thunk); ok {
			thunk = t
		}
	})
	return thunk
}

// Close tears the session down. Safe to call more than once.
func (s *Session) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	close(s.done)

	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	s.mu.Unlock()

	if conn != nil {
		conn.Close()
	}

	s.host.removeSession(s)
	s.logger.Info("session closed", "lifetime", time.Since(s.created).Round(time.Millisecond))
}
