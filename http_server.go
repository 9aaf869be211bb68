package sigma

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/goccy/go-json"
	fiber "github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/sigma/internal/libs/serializer"
	"github.com/hyp3rd/sigma/pkg/parser"
	"github.com/hyp3rd/sigma/pkg/statistics"
	"github.com/hyp3rd/sigma/sentinel"
)

// HTTPOption configures the HTTP server.
type HTTPOption func(*HTTPServer)

// HTTPServer holds Fiber app and settings.
type HTTPServer struct {
	addr         string
	app          *fiber.App
	readTimeout  time.Duration
	writeTimeout time.Duration
	authFunc     func(fiber.Ctx) error
	middlewares  []Middleware
	serializers  *serializer.Registry
	ln           net.Listener
	started      bool
}

// WithHTTPAuth sets an auth function (return error to block).
func WithHTTPAuth(fn func(fiber.Ctx) error) HTTPOption {
	return func(s *HTTPServer) { s.authFunc = fn }
}

// WithHTTPReadTimeout sets read timeout.
func WithHTTPReadTimeout(d time.Duration) HTTPOption {
	return func(s *HTTPServer) { s.readTimeout = d }
}

// WithHTTPWriteTimeout sets write timeout.
func WithHTTPWriteTimeout(d time.Duration) HTTPOption {
	return func(s *HTTPServer) { s.writeTimeout = d }
}

// WithHTTPMiddleware decorates the service used by the calculation endpoints.
func WithHTTPMiddleware(mw ...Middleware) HTTPOption {
	return func(s *HTTPServer) { s.middlewares = append(s.middlewares, mw...) }
}

const (
	defaultReadTimeout  = 5 * time.Second
	defaultWriteTimeout = 5 * time.Second
	headerRequestID     = "X-Request-ID"
)

// calculationRequest is the JSON body accepted by POST /calculate and POST /validate.
type calculationRequest struct {
	Input string `json:"input"`
}

// calculationResponse is the body returned by a successful POST /calculate.
type calculationResponse struct {
	N        int      `json:"n"        msgpack:"n"        codec:"n"`
	Values   []int64  `json:"values"   msgpack:"values"   codec:"values"`
	Mean     string   `json:"mean"     msgpack:"mean"     codec:"mean"`
	Variance string   `json:"variance" msgpack:"variance" codec:"variance"`
	StdDev   string   `json:"stddev"   msgpack:"stddev"   codec:"stddev"`
	Raw      rawStats `json:"raw"      msgpack:"raw"      codec:"raw"`
	Trace    []string `json:"trace"    msgpack:"trace"    codec:"trace"`
	Steps    string   `json:"steps"    msgpack:"steps"    codec:"steps"`
	Status   string   `json:"status"   msgpack:"status"   codec:"status"`
}

type rawStats struct {
	Mean     float64 `json:"mean"     msgpack:"mean"     codec:"mean"`
	Variance float64 `json:"variance" msgpack:"variance" codec:"variance"`
	StdDev   float64 `json:"stddev"   msgpack:"stddev"   codec:"stddev"`
}

func newCalculationResponse(res *statistics.Result) calculationResponse {
	return calculationResponse{
		N:        res.Count,
		Values:   res.Values,
		Mean:     res.FormattedMean(),
		Variance: res.FormattedVariance(),
		StdDev:   res.FormattedStdDev(),
		Raw:      rawStats{Mean: res.Mean, Variance: res.Variance, StdDev: res.StdDev},
		Trace:    res.Trace,
		Steps:    res.Steps(),
		Status:   StatusLine(res.Count),
	}
}

// configIntrospect is implemented by services able to describe their configuration.
type configIntrospect interface {
	BackendName() string
	CacheCapacity() int
	CacheCount(ctx context.Context) int
	StatsCollectorName() string
}

// NewHTTPServer builds an HTTP server holder (lazy start).
func NewHTTPServer(addr string, opts ...HTTPOption) *HTTPServer {
	srv := &HTTPServer{
		addr:         addr,
		readTimeout:  defaultReadTimeout,
		writeTimeout: defaultWriteTimeout,
		serializers:  serializer.NewSerializerRegistry(),
	}
	for _, opt := range opts { // apply options
		opt(srv)
	}

	srv.app = fiber.New(fiber.Config{
		ReadTimeout:  srv.readTimeout,
		WriteTimeout: srv.writeTimeout,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	return srv
}

// Start launches listener (idempotent). Caller provides the service for handler wiring.
func (s *HTTPServer) Start(ctx context.Context, svc Service) error {
	if s.started { // idempotent
		return nil
	}

	s.mountRoutes(svc)

	lc := net.ListenConfig{}

	ln, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return ewrap.Wrap(err, "http listen")
	}

	s.ln = ln

	go func() {
		// Listener returns once Shutdown is called
		_ = s.app.Listener(ln, fiber.ListenConfig{DisableStartupMessage: true})
	}()

	s.started = true

	return nil
}

// Address returns the bound address (useful when passing ":0" for ephemeral port). Empty if not started yet.
func (s *HTTPServer) Address() string {
	if s.ln == nil {
		return ""
	}

	return s.ln.Addr().String()
}

// Shutdown stops the server.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if !s.started {
		return nil
	}

	ch := make(chan error, 1)

	go func() {
		ch <- s.app.Shutdown()
	}()

	select {
	case <-ctx.Done():
		return sentinel.ErrMgmtHTTPShutdownTimeout
	case err := <-ch:
		s.started = false

		return err
	}
}

func (s *HTTPServer) mountRoutes(svc Service) {
	useAuth := s.wrapAuth
	decorated := ApplyMiddleware(svc, s.middlewares...)

	s.app.Use(requestID)
	s.registerBasic(useAuth, svc)
	s.registerCalculation(useAuth, decorated)
}

// requestID propagates or assigns the request id of every call.
func requestID(fiberCtx fiber.Ctx) error {
	id := fiberCtx.Get(headerRequestID)
	if id == "" {
		id = uuid.NewString()
	}

	fiberCtx.Set(headerRequestID, id)

	return fiberCtx.Next()
}

// wrapAuth returns an auth-wrapped handler if authFunc provided.
func (s *HTTPServer) wrapAuth(handler fiber.Handler) fiber.Handler { //nolint:ireturn
	if s.authFunc == nil {
		return handler
	}

	return func(fiberCtx fiber.Ctx) error {
		authErr := s.authFunc(fiberCtx)
		if authErr != nil {
			return authErr
		}

		return handler(fiberCtx)
	}
}

func (s *HTTPServer) registerBasic(useAuth func(fiber.Handler) fiber.Handler, svc Service) {
	s.app.Get("/health", useAuth(func(fiberCtx fiber.Ctx) error { return fiberCtx.SendString("ok") }))
	s.app.Get("/stats", useAuth(func(fiberCtx fiber.Ctx) error { return fiberCtx.JSON(svc.GetStats()) }))
	s.app.Get("/config", useAuth(func(fiberCtx fiber.Ctx) error {
		ci, ok := svc.(configIntrospect)
		if !ok {
			return fiberCtx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "configuration not available"})
		}

		return fiberCtx.JSON(fiber.Map{
			"backend":        ci.BackendName(),
			"cacheCapacity":  ci.CacheCapacity(),
			"cacheCount":     ci.CacheCount(fiberCtx.Context()),
			"statsCollector": ci.StatsCollectorName(),
			"serializers":    s.serializers.Names(),
		})
	}))
}

func (s *HTTPServer) registerCalculation(useAuth func(fiber.Handler) fiber.Handler, svc Service) {
	s.app.Post("/calculate", useAuth(func(fiberCtx fiber.Ctx) error {
		raw, err := readInput(fiberCtx)
		if err != nil {
			return fiberCtx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		res, err := svc.Calculate(fiberCtx.Context(), raw)
		if err != nil {
			status := fiber.StatusUnprocessableEntity
			if !IsInputError(err) {
				status = fiber.StatusInternalServerError
			}

			return s.respond(fiberCtx, status, Describe(err))
		}

		return s.respond(fiberCtx, fiber.StatusOK, newCalculationResponse(res))
	}))
	s.app.Post("/validate", useAuth(func(fiberCtx fiber.Ctx) error {
		raw, err := readInput(fiberCtx)
		if err != nil {
			return fiberCtx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		return fiberCtx.JSON(fiber.Map{
			"hint":    parser.LooksValid(raw),
			"message": HintLine(raw),
		})
	}))
	s.app.Post("/cache/clear", useAuth(func(fiberCtx fiber.Ctx) error {
		clearErr := svc.ClearCache(fiberCtx.Context())
		if clearErr != nil {
			return clearErr
		}

		return fiberCtx.SendStatus(fiber.StatusOK)
	}))
}

// readInput extracts the raw list from a text/plain or JSON body.
func readInput(fiberCtx fiber.Ctx) (string, error) {
	body := fiberCtx.Body()

	if strings.HasPrefix(fiberCtx.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		var req calculationRequest

		err := json.Unmarshal(body, &req)
		if err != nil {
			return "", ewrap.Wrap(err, "decoding request body")
		}

		return req.Input, nil
	}

	return string(body), nil
}

// respond encodes v with the serializer matching the Accept header.
func (s *HTTPServer) respond(fiberCtx fiber.Ctx, status int, v any) error {
	accepted := fiberCtx.Accepts("application/json", "application/msgpack", "application/cbor")

	name, ok := serializer.ForContentType(accepted)
	if !ok {
		name = serializer.JSON
	}

	ser, err := s.serializers.New(name)
	if err != nil {
		return err
	}

	data, err := ser.Marshal(v)
	if err != nil {
		return err
	}

	contentType, _ := serializer.ContentType(name)
	fiberCtx.Set(fiber.HeaderContentType, contentType)

	return fiberCtx.Status(status).Send(data)
}
