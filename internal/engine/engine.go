// Package engine orchestrates operation execution: name resolution, payload
// construction, transport, and response interpretation.
package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pitabwire/sonoctl/internal/catalog"
	"github.com/pitabwire/sonoctl/internal/client"
	"github.com/pitabwire/sonoctl/internal/observability"
	"github.com/pitabwire/sonoctl/internal/soap"
	"github.com/pitabwire/sonoctl/model"
)

const (
	// DefaultPort is the control port devices listen on.
	DefaultPort = 1400
	// DefaultTimeout bounds a single execution end to end.
	DefaultTimeout = 5 * time.Second

	// knownNameSample bounds how many catalog names an unresolved-name
	// error carries.
	knownNameSample = 10
)

// Request describes a single execution: which operation, against which
// device, with which parameters. Zero Port and Timeout take the defaults.
type Request struct {
	Operation string
	Host      string
	Port      int
	Params    model.ParameterMap
	Timeout   time.Duration
}

// Engine executes catalog operations against devices. It holds no per-call
// state and is safe for concurrent use.
type Engine struct {
	registry *catalog.Registry
	client   *client.Client
	log      *zap.Logger
}

// New creates an Engine over a registry and transport client.
func New(registry *catalog.Registry, cl *client.Client, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{registry: registry, client: cl, log: logger}
}

// Execute runs one operation against one device. The returned error, when
// non-nil, is always a *model.CallError; the stages run strictly in order
// and the first failure aborts the call before any network traffic that
// stage would have produced.
func (e *Engine) Execute(ctx context.Context, req Request) (model.ExecutionResult, error) {
	var result model.ExecutionResult

	spec, ok := e.registry.Resolve(req.Operation)
	if !ok {
		return result, model.NewNotFoundError(req.Operation, e.registry.KnownNames(knownNameSample))
	}

	svc, ok := e.registry.Service(spec.Service)
	if !ok {
		return result, model.NewUnknownServiceError(spec.Service, spec.Name)
	}

	payload, err := soap.BuildPayload(spec, req.Params)
	if err != nil {
		return result, err
	}

	port := req.Port
	if port == 0 {
		port = DefaultPort
	}
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ctx, span := observability.StartSpan(ctx, "engine.Execute",
		observability.AttrOperation.String(spec.Name),
		observability.AttrAction.String(spec.Action),
		observability.AttrService.String(spec.Service),
		observability.AttrHost.String(req.Host),
		observability.AttrPort.Int(port),
	)

	log := e.log.With(
		zap.String("correlation_id", uuid.NewString()),
		zap.String("operation", spec.Name),
		zap.String("action", spec.Action),
		zap.String("service", spec.Service),
		zap.String("host", req.Host),
		zap.Int("port", port),
	)
	log.Info("executing operation")

	envelope := soap.Envelope(svc.ServiceURI, spec.Action, payload)
	header := soap.ActionHeader(svc.ServiceURI, spec.Action)

	resp, err := e.client.Send(ctx, req.Host, port, svc.Endpoint, envelope, header)
	if err != nil {
		log.Error("transport failure", zap.Error(err))
		observability.EndSpanWithError(span, err)
		return result, err
	}

	if resp.StatusCode >= 400 {
		callErr := soap.ParseFault(resp.Body, resp.StatusCode)
		log.Error("device returned fault",
			zap.Int("http_status", resp.StatusCode),
			zap.String("code", callErr.Code),
			zap.String("message", callErr.Message))
		observability.EndSpanWithError(span, callErr)
		return result, callErr
	}

	fields, found, err := soap.ParseSuccess(resp.Body, spec.Action, resp.StatusCode)
	if err != nil {
		log.Error("unparseable response body", zap.Error(err))
		observability.EndSpanWithError(span, err)
		return result, err
	}

	if !found {
		log.Debug("no response element located; treating as empty success")
	}
	log.Info("operation succeeded", zap.Int("response_fields", len(fields)))
	observability.EndSpanWithError(span, nil)

	return model.ExecutionResult{
		Operation:     spec.Name,
		Action:        spec.Action,
		Service:       spec.Service,
		Fields:        fields,
		ResponseFound: found,
	}, nil
}
