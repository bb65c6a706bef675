// Copyright (c) 2025 April
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// GRPC implements API over the april.v1.TaskService gRPC service.
// Unary calls exchange google.protobuf.Struct messages carrying the same JSON
// objects as the HTTP transport; FollowDev is a server stream of BytesValue chunks.
type GRPC struct {
	conn   *grpc.ClientConn
	apiKey string
	log    *zap.Logger
}

// NewGRPC wraps an established connection.
func NewGRPC(conn *grpc.ClientConn, apiKey string, log *zap.Logger) *GRPC {
	if log == nil {
		log = zap.NewNop()
	}
	return &GRPC{conn: conn, apiKey: apiKey, log: log}
}

// outgoing attaches the authorization and request id metadata.
func (g *GRPC) outgoing(ctx context.Context, method string) context.Context {
	reqID := uuid.NewString()
	g.log.Debug("backend request", zap.String("method", method), zap.String("request_id", reqID))
	return metadata.AppendToOutgoingContext(ctx,
		authorization, bearerPrefix+g.apiKey,
		requestIDKey, reqID)
}

func (g *GRPC) invoke(ctx context.Context, method string, req any) (*structpb.Struct, error) {
	in, err := toStruct(req)
	if err != nil {
		return nil, err
	}
	out := &structpb.Struct{}
	if err := g.conn.Invoke(g.outgoing(ctx, method), method, in, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Lint calls the Lint method and returns the reply as JSON.
func (g *GRPC) Lint(ctx context.Context, req LintRequest) ([]byte, error) {
	out, err := g.invoke(ctx, methodLint, req)
	if err != nil {
		return nil, err
	}
	return protojson.Marshal(out)
}

// SubmitDev calls the SubmitDev method and returns the task_id field of the reply.
func (g *GRPC) SubmitDev(ctx context.Context, req DevRequest) (string, error) {
	out, err := g.invoke(ctx, methodSubmit, req)
	if err != nil {
		return "", err
	}
	id := out.GetFields()["task_id"].GetStringValue()
	if id == "" {
		return "", errors.New("submit response has no task_id")
	}
	return id, nil
}

// DevStatus calls the DevStatus method with {"task_id": id}.
func (g *GRPC) DevStatus(ctx context.Context, taskID string) (TaskStatus, error) {
	out, err := g.invoke(ctx, methodStatus, map[string]string{"task_id": taskID})
	if err != nil {
		return TaskStatus{}, err
	}
	b, err := protojson.Marshal(out)
	if err != nil {
		return TaskStatus{}, err
	}
	var st TaskStatus
	if err := json.Unmarshal(b, &st); err != nil {
		return TaskStatus{}, err
	}
	return st, nil
}

// FollowDev opens the FollowDev server stream. Closing the returned reader
// cancels the stream.
func (g *GRPC) FollowDev(ctx context.Context, taskID string) (io.ReadCloser, error) {
	ctx, cancel := context.WithCancel(ctx)
	cs, err := g.conn.NewStream(g.outgoing(ctx, methodFollow), &grpc.StreamDesc{ServerStreams: true}, methodFollow)
	if err != nil {
		cancel()
		return nil, err
	}
	if err := cs.SendMsg(wrapperspb.String(taskID)); err != nil {
		cancel()
		return nil, err
	}
	if err := cs.CloseSend(); err != nil {
		cancel()
		return nil, err
	}
	return &streamReader{stream: cs, cancel: cancel}, nil
}

// Close closes the underlying connection.
func (g *GRPC) Close() error { return g.conn.Close() }

// streamReader adapts a stream of BytesValue messages to io.Reader.
type streamReader struct {
	stream grpc.ClientStream
	cancel context.CancelFunc
	buf    []byte
}

func (r *streamReader) Read(p []byte) (int, error) {
	for len(r.buf) == 0 {
		msg := &wrapperspb.BytesValue{}
		if err := r.stream.RecvMsg(msg); err != nil {
			return 0, err
		}
		r.buf = msg.GetValue()
	}
	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}

func (r *streamReader) Close() error {
	r.cancel()
	return nil
}

func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	s := &structpb.Struct{}
	if err := protojson.Unmarshal(b, s); err != nil {
		return nil, err
	}
	return s, nil
}
