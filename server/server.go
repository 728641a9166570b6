/*
Copyright (C) 2024  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// Package server offers lambda sessions over websockets.
//
// Every connection to /eval is its own session with its own definitions.
// A client sends requests
//
//	{"source": "def t = true\nnot t", "trace": true}
//
// and receives, in order, one "step" message per beta step (only with
// trace, at most MaxTraceSteps of them) and then exactly one "result",
// "definitions" or "error" message.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/launix-de/lambda/lambda"
	"go.uber.org/zap"
)

// DefaultMaxTraceSteps limits the step messages of a single request.
const DefaultMaxTraceSteps = 1000

// DefaultMaxRequestBytes limits the size of a single request.
const DefaultMaxRequestBytes = 1 << 20

type Config struct {
	Logger        *zap.Logger
	MaxTraceSteps int // 0 = DefaultMaxTraceSteps
	// larger requests close the connection with CloseMessageTooBig
	MaxRequestBytes int64 // 0 = DefaultMaxRequestBytes
	// Options configure the evaluator of every session.
	Options []lambda.Option
}

type Server struct {
	logger        *zap.Logger
	options       []lambda.Option
	maxTraceSteps int
	maxRequest    int64
	upgrader      websocket.Upgrader
	mux           *http.ServeMux

	done      chan struct{}
	closeOnce sync.Once
	sessions  sync.WaitGroup
}

type Request struct {
	Source string `json:"source"`
	Trace  bool   `json:"trace"`
}

type StepMessage struct {
	Type     string `json:"type"`
	Depth    int    `json:"depth"`
	Step     int    `json:"step"`
	Function string `json:"function"`
	Argument string `json:"argument"`
	Result   string `json:"result"`
}

// Message ends every request: Type is "result", "definitions" or "error".
type Message struct {
	Type   string `json:"type"`
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

func New(cfg Config) *Server {
	s := &Server{
		logger:        cfg.Logger,
		maxTraceSteps: cfg.MaxTraceSteps,
		maxRequest:    cfg.MaxRequestBytes,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		mux:  http.NewServeMux(),
		done: make(chan struct{}),
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.maxTraceSteps <= 0 {
		s.maxTraceSteps = DefaultMaxTraceSteps
	}
	if s.maxRequest <= 0 {
		s.maxRequest = DefaultMaxRequestBytes
	}
	s.options = append([]lambda.Option{lambda.WithLogger(s.logger)}, cfg.Options...)
	s.mux.HandleFunc("/eval", s.serveEval)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down and
// closes the open sessions.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errc <- server.ListenAndServe()
	}()
	select {
	case err := <-errc:
		s.Close()
		return err
	case <-ctx.Done():
	}
	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := server.Shutdown(shutdown)
	s.Close()
	return err
}

// Close ends all open sessions and waits for them.
func (s *Server) Close() {
	s.closeOnce.Do(func() { close(s.done) })
	s.sessions.Wait()
}

type connection struct {
	ws     *websocket.Conn
	logger *zap.Logger

	sendmutex sync.Mutex
}

func (c *connection) send(v interface{}) error {
	c.sendmutex.Lock()
	defer c.sendmutex.Unlock()
	return c.ws.WriteJSON(v)
}

func (s *Server) serveEval(w http.ResponseWriter, r *http.Request) {
	s.sessions.Add(1)
	defer s.sessions.Done()
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered with an http error
		s.logger.Warn("websocket upgrade failed", zap.String("remote", r.RemoteAddr), zap.Error(err))
		return
	}
	defer ws.Close()
	ws.SetReadLimit(s.maxRequest)

	evaluator, err := lambda.NewEvaluator(s.options...)
	c := &connection{ws: ws, logger: s.logger.With(zap.String("remote", r.RemoteAddr))}
	if err != nil {
		c.logger.Error("cannot start session", zap.Error(err))
		c.send(Message{Type: "error", Error: err.Error()})
		return
	}
	c.logger = c.logger.With(zap.Stringer("session", evaluator.ID()))
	c.logger.Info("session opened")

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-s.done:
			deadline := time.Now().Add(time.Second)
			ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"), deadline)
			ws.Close()
		case <-stop:
		}
	}()

	for {
		messageType, msg, err := ws.ReadMessage()
		if err != nil {
			if err == websocket.ErrReadLimit || websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Warn("session aborted", zap.Error(err))
			}
			c.logger.Info("session closed")
			return
		}
		if messageType != websocket.TextMessage {
			err = c.send(Message{Type: "error", Error: "expecting text messages"})
		} else {
			err = s.handle(c, evaluator, msg)
		}
		if err != nil {
			c.logger.Warn("cannot answer", zap.Error(err))
			return
		}
	}
}

// handle answers one request. Only a failing write is returned; evaluation
// errors go to the client.
func (s *Server) handle(c *connection, evaluator *lambda.Evaluator, msg []byte) (err error) {
	// anti-panic func
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("panic in evaluation", zap.Any("panic", r), zap.Stack("stack"))
			err = c.send(Message{Type: "error", Error: fmt.Sprint("panic: ", r)})
		}
	}()
	var req Request
	if err := json.Unmarshal(msg, &req); err != nil {
		return c.send(Message{Type: "error", Error: "invalid request: " + err.Error()})
	}
	var observer lambda.Observer = lambda.EmptyObserver
	var steps *stepObserver
	if req.Trace {
		steps = &stepObserver{c: c, max: s.maxTraceSteps}
		observer = steps
	}
	result, err := evaluator.EvaluateSource("request", req.Source, observer)
	if steps != nil && steps.err != nil {
		return steps.err
	}
	switch {
	case err != nil:
		return c.send(Message{Type: "error", Error: err.Error()})
	case result == nil:
		return c.send(Message{Type: "definitions"})
	}
	return c.send(Message{Type: "result", Result: result.String()})
}

// stepObserver streams beta steps to the client.
type stepObserver struct {
	c    *connection
	max  int
	step int
	err  error // write failure, aborts the reduction
}

func (o *stepObserver) StartedReduction(int, lambda.Expression) error {
	return nil
}

func (o *stepObserver) Reduced(depth int, function, argument, result lambda.Expression) error {
	step := o.step
	o.step++
	if step >= o.max {
		return nil
	}
	o.err = o.c.send(StepMessage{
		Type:     "step",
		Depth:    depth,
		Step:     step,
		Function: function.String(),
		Argument: argument.String(),
		Result:   result.String(),
	})
	return o.err
}
