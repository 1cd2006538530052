package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ares-mcp/ares-mcp-server/internal/ctxkey"
	"github.com/ares-mcp/ares-mcp-server/internal/domain/registry"
	"github.com/ares-mcp/ares-mcp-server/internal/domain/tool"
	"github.com/ares-mcp/ares-mcp-server/internal/domain/validation"
	"github.com/ares-mcp/ares-mcp-server/internal/port/inbound"
	"github.com/ares-mcp/ares-mcp-server/internal/telemetry"
)

// unknownToolLabel is the metrics label used for names outside the catalog.
const unknownToolLabel = "unknown"

type toolHandler func(ctx context.Context, args map[string]any) (string, error)

// ToolDispatcher routes tool invocations to the RegistryService.
// It implements inbound.ToolInvoker. Dispatch failures, including panics,
// are returned as plain text "Error: <message>".
type ToolDispatcher struct {
	registry  *RegistryService
	sanitizer *validation.Sanitizer
	stats     *StatsService
	metrics   *telemetry.Metrics
	logger    *slog.Logger
	handlers  map[tool.Name]toolHandler
}

// DispatcherOption configures a ToolDispatcher.
type DispatcherOption func(*ToolDispatcher)

// WithDispatcherLogger sets the logger used when no request logger is in context.
func WithDispatcherLogger(logger *slog.Logger) DispatcherOption {
	return func(d *ToolDispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithDispatcherMetrics records tool call counts and latencies.
func WithDispatcherMetrics(m *telemetry.Metrics) DispatcherOption {
	return func(d *ToolDispatcher) {
		d.metrics = m
	}
}

// WithStats records tool call counters into stats.
func WithStats(stats *StatsService) DispatcherOption {
	return func(d *ToolDispatcher) {
		d.stats = stats
	}
}

// NewToolDispatcher creates a dispatcher for the tool catalog.
func NewToolDispatcher(registrySvc *RegistryService, opts ...DispatcherOption) *ToolDispatcher {
	d := &ToolDispatcher{
		registry:  registrySvc,
		sanitizer: validation.NewSanitizer(),
		stats:     NewStatsService(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.handlers = d.buildHandlers()
	return d
}

// Tools returns the catalog of callable tools.
func (d *ToolDispatcher) Tools() []tool.Tool {
	return tool.Catalog()
}

// Stats returns the dispatcher's call counters.
func (d *ToolDispatcher) Stats() Stats {
	return d.stats.GetStats()
}

// Invoke runs the named tool and returns its textual result.
func (d *ToolDispatcher) Invoke(ctx context.Context, name string, args map[string]any) (out string) {
	start := time.Now()
	requestID, ok := ctxkey.RequestID(ctx)
	if !ok {
		requestID = uuid.NewString()
	}
	logger := ctxkey.Logger(ctx, d.logger).With("request_id", requestID, "tool", name)

	known := false
	defer func() {
		if r := recover(); r != nil {
			logger.Error("tool handler panicked", "panic", r)
			out = errorText(fmt.Errorf("%v", r))
		}
		d.record(name, known, out, time.Since(start))
	}()

	logger.Debug("tool call started")

	entry, handler, err := d.resolve(name)
	if err != nil {
		logger.Warn("tool call rejected", "error", err)
		return errorText(err)
	}
	known = true

	if args == nil {
		args = map[string]any{}
	}
	if err := d.sanitizer.ValidateArguments(args); err != nil {
		logger.Warn("tool call rejected", "error", err)
		return errorText(registry.InvalidArgumentsError(name, err))
	}

	if err := checkRequired(entry, args); err != nil {
		logger.Warn("tool call rejected", "error", err)
		return errorText(err)
	}

	result, err := handler(ctx, args)
	if err != nil {
		logger.Warn("tool call rejected", "error", err)
		return errorText(err)
	}

	logger.Debug("tool call finished", "duration", time.Since(start))
	return result
}

// resolve finds the catalog entry and its handler for name.
func (d *ToolDispatcher) resolve(name string) (tool.Tool, toolHandler, error) {
	if err := d.sanitizer.ValidateToolName(name); err != nil {
		return tool.Tool{}, nil, registry.UnknownToolError(name)
	}
	t, ok := tool.Lookup(name)
	if !ok {
		return tool.Tool{}, nil, registry.UnknownToolError(name)
	}
	handler, ok := d.handlers[t.Name]
	if !ok {
		return tool.Tool{}, nil, registry.UnknownToolError(name)
	}
	return t, handler, nil
}

// checkRequired rejects calls missing an argument the tool schema requires.
// A null value counts as missing.
func checkRequired(t tool.Tool, args map[string]any) error {
	for _, key := range t.Required() {
		if v, ok := args[key]; !ok || v == nil {
			return registry.MissingArgumentError(string(t.Name), key)
		}
	}
	return nil
}

func (d *ToolDispatcher) record(name string, known bool, out string, elapsed time.Duration) {
	if !known {
		d.stats.RecordUnknown()
		d.metrics.ObserveToolCall(unknownToolLabel, false, elapsed.Seconds())
		return
	}
	ok := !isErrorText(out)
	d.stats.RecordCall(name, ok)
	d.metrics.ObserveToolCall(name, ok, elapsed.Seconds())
}

func (d *ToolDispatcher) buildHandlers() map[tool.Name]toolHandler {
	r := d.registry
	return map[tool.Name]toolHandler{
		tool.SearchSubjects: func(ctx context.Context, args map[string]any) (string, error) {
			return r.SearchSubjects(ctx, args), nil
		},
		tool.FindSubject: func(ctx context.Context, args map[string]any) (string, error) {
			return r.FindSubject(ctx, args), nil
		},
		tool.GetSubject: func(ctx context.Context, args map[string]any) (string, error) {
			ico, err := requiredString(tool.GetSubject, args, "ico")
			if err != nil {
				return "", err
			}
			return r.GetSubject(ctx, ico), nil
		},
		tool.GetExtract: func(ctx context.Context, args map[string]any) (string, error) {
			ico, err := requiredString(tool.GetExtract, args, "ico")
			if err != nil {
				return "", err
			}
			extractType, err := optionalString(tool.GetExtract, args, "type")
			if err != nil {
				return "", err
			}
			return r.GetExtract(ctx, ico, extractType), nil
		},
		tool.SearchInRegistry: func(ctx context.Context, args map[string]any) (string, error) {
			code, err := requiredString(tool.SearchInRegistry, args, "registry")
			if err != nil {
				return "", err
			}
			filters := make(map[string]any, len(args))
			for k, v := range args {
				if k != "registry" {
					filters[k] = v
				}
			}
			return r.SearchInRegistry(ctx, code, filters), nil
		},
		tool.GetFromRegistry: func(ctx context.Context, args map[string]any) (string, error) {
			code, err := requiredString(tool.GetFromRegistry, args, "registry")
			if err != nil {
				return "", err
			}
			ico, err := requiredString(tool.GetFromRegistry, args, "ico")
			if err != nil {
				return "", err
			}
			return r.GetFromRegistry(ctx, code, ico), nil
		},
		tool.ValidateIdentifier: func(ctx context.Context, args map[string]any) (string, error) {
			ico, err := requiredString(tool.ValidateIdentifier, args, "ico")
			if err != nil {
				return "", err
			}
			return r.ValidateIdentifier(ctx, ico), nil
		},
		tool.SearchCodebooks: func(ctx context.Context, args map[string]any) (string, error) {
			return r.SearchCodebooks(ctx, args), nil
		},
		tool.SearchAddresses: func(ctx context.Context, args map[string]any) (string, error) {
			return r.SearchAddresses(ctx, args), nil
		},
		tool.SearchNotifications: func(ctx context.Context, args map[string]any) (string, error) {
			return r.SearchNotifications(ctx, args), nil
		},
	}
}

func requiredString(name tool.Name, args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return "", registry.MissingArgumentError(string(name), key)
	}
	s, ok := v.(string)
	if !ok {
		return "", &registry.DispatchError{Message: fmt.Sprintf("tool %s: argument %q must be a string", name, key)}
	}
	return s, nil
}

func optionalString(name tool.Name, args map[string]any, key string) (string, error) {
	if v, ok := args[key]; !ok || v == nil {
		return "", nil
	}
	return requiredString(name, args, key)
}

func errorText(err error) string {
	return "Error: " + err.Error()
}

// isErrorText reports whether a tool result is a failure: either plain
// dispatch error text or a JSON object carrying an "error" field.
func isErrorText(out string) bool {
	if strings.HasPrefix(out, "Error: ") {
		return true
	}
	var shape struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal([]byte(out), &shape); err != nil {
		return false
	}
	return len(shape.Error) > 0
}

var _ inbound.ToolInvoker = (*ToolDispatcher)(nil)
