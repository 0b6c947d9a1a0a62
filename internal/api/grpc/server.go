package grpcapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
	grpcprom "github.com/grpc-ecosystem/go-grpc-prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"statistics-aggregator/internal/api"
	"statistics-aggregator/internal/application/report"
	"statistics-aggregator/internal/domain"
	"statistics-aggregator/internal/logging"
)

// FieldSection names the request field selecting the section.
const FieldSection = "section"

const traceMetadataKey = "x-trace-id"

// Service is the report surface served over gRPC.
type Service interface {
	Sections() []report.SectionInfo
	Serve(ctx context.Context, component string, params report.Params) (any, error)
}

// Server exposes StatisticsService backed by the report registry.
type Server struct {
	service Service
	logger  *logging.Logger
	grpc    *grpc.Server
}

type Option func(*serverOptions)

type serverOptions struct {
	metrics *grpcprom.ServerMetrics
}

// WithMetrics instruments every call with the go-grpc-prometheus collectors.
func WithMetrics(metrics *grpcprom.ServerMetrics) Option {
	return func(o *serverOptions) {
		o.metrics = metrics
	}
}

func NewServer(service Service, logger *logging.Logger, opts ...Option) *Server {
	var options serverOptions
	for _, opt := range opts {
		opt(&options)
	}

	s := &Server{service: service, logger: logger}

	interceptors := []grpc.UnaryServerInterceptor{}
	if options.metrics != nil {
		interceptors = append(interceptors, options.metrics.UnaryServerInterceptor())
	}
	interceptors = append(interceptors, s.traceInterceptor, errorInterceptor)

	s.grpc = grpc.NewServer(grpc.ChainUnaryInterceptor(interceptors...))
	s.grpc.RegisterService(&ServiceDesc, s)
	if options.metrics != nil {
		options.metrics.InitializeMetrics(s.grpc)
	}
	return s
}

// Serve accepts connections on lis until ctx is cancelled, then stops
// gracefully.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.grpc.GracefulStop()
	}()

	s.logger.Info("grpc server listening", "addr", lis.Addr().String())
	if err := s.grpc.Serve(lis); err != nil {
		return fmt.Errorf("grpc serve: %w", err)
	}
	<-stopped
	return nil
}

// Stop terminates all connections immediately.
func (s *Server) Stop() {
	s.grpc.Stop()
}

func (s *Server) ListSections(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return toStruct(map[string]any{"sections": s.service.Sections()})
}

func (s *Server) Chart(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.component(ctx, req, report.KindChart)
}

func (s *Server) Table(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.component(ctx, req, report.KindTable)
}

func (s *Server) TableRow(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.component(ctx, req, report.KindTableRow)
}

func (s *Server) component(ctx context.Context, req *structpb.Struct, kind report.ComponentKind) (*structpb.Struct, error) {
	lookup := func(name string) string {
		return req.GetFields()[name].GetStringValue()
	}

	params, err := api.ParseParams(lookup)
	if err != nil {
		return nil, err
	}

	payload, err := s.service.Serve(ctx, report.ComponentName(lookup(FieldSection), kind), params)
	if err != nil {
		return nil, err
	}
	return toStruct(payload)
}

// toStruct round-trips payload through JSON so responses match the HTTP shape.
func toStruct(payload any) (*structpb.Struct, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode response: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return structpb.NewStruct(fields)
}

func (s *Server) traceInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	traceID := ""
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(traceMetadataKey); len(values) > 0 {
			traceID = values[0]
		}
	}
	if traceID == "" {
		traceID = uuid.NewString()
	}

	logger := s.logger.WithTraceID(traceID)
	start := time.Now()
	resp, err := handler(logger.WithContext(ctx), req)

	code := CodeFor(err)
	args := logging.AttachError(err, "method", info.FullMethod, "code", code.String(), "duration", time.Since(start).String())
	if code == codes.Internal || code == codes.Unavailable {
		logger.Error("grpc call failed", args...)
	} else {
		logger.Debug("grpc call", args...)
	}
	return resp, err
}

func errorInterceptor(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	resp, err := handler(ctx, req)
	if err == nil {
		return resp, nil
	}
	if _, ok := status.FromError(err); ok {
		return nil, err
	}

	code := CodeFor(err)
	message := err.Error()
	if code == codes.Internal {
		message = "internal error"
	}
	return nil, status.Error(code, message)
}

// CodeFor maps the error taxonomy onto gRPC status codes.
func CodeFor(err error) codes.Code {
	if err == nil {
		return codes.OK
	}
	if st, ok := status.FromError(err); ok {
		return st.Code()
	}

	switch {
	case errors.Is(err, api.ErrInvalidParameter),
		errors.Is(err, domain.ErrInvalidGranularity),
		errors.Is(err, domain.ErrInvalidRange),
		errors.Is(err, domain.ErrUnknownPredicate),
		errors.Is(err, domain.ErrUnsupportedMetric),
		errors.Is(err, domain.ErrUnsupportedDimension):
		return codes.InvalidArgument
	case errors.Is(err, domain.ErrUnknownSection),
		errors.Is(err, domain.ErrUnknownComponent):
		return codes.NotFound
	case errors.Is(err, domain.ErrNotImplemented):
		return codes.Unimplemented
	case errors.Is(err, domain.ErrRecordSource):
		return codes.Unavailable
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	default:
		return codes.Internal
	}
}

var _ StatisticsServer = (*Server)(nil)
