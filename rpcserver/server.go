// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package rpcserver serves a counter.Store over CBOR-RPC.  Each
// connection carries a stream of cborrpc.Request messages, answered in
// order with cborrpc.Response messages.
package rpcserver

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"reflect"
	"runtime"
	"strings"

	"github.com/diffeo/go-counter/cborrpc"
	"github.com/diffeo/go-counter/counter"
	"github.com/sirupsen/logrus"
	"github.com/ugorji/go/codec"
)

// Server answers CBOR-RPC requests against a counter store.
type Server struct {
	service reflect.Value
	cbor    *codec.CborHandle
	logger  logrus.FieldLogger
	reqLog  logrus.FieldLogger
}

// New creates a new server around a store.  Errors are logged to
// logger; if reqLogger is non-nil, every request and response is
// logged to it at debug level.
func New(store counter.Store, logger, reqLogger logrus.FieldLogger) (*Server, error) {
	cbor, err := cborrpc.NewHandle()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Server{
		service: reflect.ValueOf(&CounterService{Store: store}),
		cbor:    cbor,
		logger:  logger,
		reqLog:  reqLogger,
	}, nil
}

// Serve accepts connections from ln until accepting fails, handling
// each in its own goroutine.  It always returns a non-nil error.
func (s *Server) Serve(ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		go s.ServeConn(conn)
	}
}

// ServeConn handles requests on a single connection until the peer
// closes it or a protocol error occurs.  The connection is closed on
// return.
func (s *Server) ServeConn(conn net.Conn) {
	defer conn.Close()

	fields := logrus.Fields{
		"remote": conn.RemoteAddr(),
	}
	errLog := s.logger.WithFields(fields)
	var reqLog logrus.FieldLogger
	if s.reqLog != nil {
		reqLog = s.reqLog.WithFields(fields)
	}

	reader := bufio.NewReader(conn)
	decoder := codec.NewDecoder(reader, s.cbor)
	writer := bufio.NewWriter(conn)
	encoder := codec.NewEncoder(writer, s.cbor)

	for {
		var request cborrpc.Request
		err := decoder.Decode(&request)
		if err == io.EOF {
			if reqLog != nil {
				reqLog.Debug("Connection closed")
			}
			return
		} else if err != nil {
			errLog.WithError(err).Error("Error reading message")
			return
		}
		if reqLog != nil {
			reqLog.WithFields(logrus.Fields{
				"id":     request.ID,
				"method": request.Method,
			}).Debug("Request")
		}
		response := s.doRequest(request)
		if reqLog != nil {
			entry := reqLog.WithField("id", response.ID)
			if response.Error != "" {
				entry = entry.WithField("error", response.Error)
			}
			entry.Debug("Response")
		}
		err = encoder.Encode(response)
		if err != nil {
			errLog.WithError(err).Error("Error encoding response")
			return
		}
		err = writer.Flush()
		if err != nil {
			errLog.WithError(err).Error("Error writing response")
			return
		}
	}
}

// snakeToCamel converts a "snake case" name, like 'foo_bar_baz', to a
// "camel case" name with its first letter capitalized, like
// 'FooBarBaz'.
func snakeToCamel(s string) string {
	words := strings.Split(s, "_")
	for n, word := range words {
		if word != "" {
			words[n] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, "")
}

func (s *Server) doRequest(request cborrpc.Request) (response cborrpc.Response) {
	response.ID = request.ID

	defer func() {
		if oops := recover(); oops != nil {
			buf := make([]byte, 65536)
			buf = buf[:runtime.Stack(buf, false)]
			s.logger.WithFields(logrus.Fields{
				"panic": oops,
				"stack": string(buf),
			}).Error("Panic in CBOR-RPC handler")
			response.Result = nil
			response.Error = fmt.Sprintf("%v", oops)
		}
	}()

	var (
		err     error
		params  []reflect.Value
		returns []reflect.Value
	)
	method := snakeToCamel(request.Method)
	funcv := s.service.MethodByName(method)
	if method == "" || !funcv.IsValid() {
		err = fmt.Errorf("no such method %v", request.Method)
	}
	if err == nil {
		params, err = cborrpc.CreateParamList(funcv, request.Params)
	}
	if err == nil {
		returns = funcv.Call(params)
		if len(returns) != 2 {
			err = errors.New("unexpected return from method")
		} else if errV := returns[1].Interface(); errV != nil {
			err = errV.(error)
		}
	}

	if err != nil {
		response.Error = err.Error()
	} else {
		response.Result = returns[0].Interface()
	}
	return
}
