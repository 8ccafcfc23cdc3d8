package server

import (
	"context"
	"embed"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"comply_desk/catalog"
	"comply_desk/document"
	"comply_desk/generator"
)

//go:embed web
var embeddedStatic embed.FS

// maxBodyBytes bounds a generation request body.
const maxBodyBytes = 1 << 20

// DefaultTimeout bounds one generation, model call included.
const DefaultTimeout = 60 * time.Second

// Options tunes a Server. Zero values pick defaults.
type Options struct {
	Logger   *slog.Logger
	Timeout  time.Duration
	Registry *prometheus.Registry
}

type Server struct {
	genAgent *generator.Agent
	catalog  *catalog.Store
	logger   *slog.Logger
	timeout  time.Duration
	metrics  *metrics
	registry *prometheus.Registry
	staticFS http.Handler
}

func New(genAgent *generator.Agent, store *catalog.Store, opts Options) (*Server, error) {
	if genAgent == nil {
		return nil, errors.New("generator agent required")
	}
	if store == nil {
		return nil, errors.New("catalog store required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}

	sub, err := fs.Sub(embeddedStatic, "web")
	if err != nil {
		return nil, err
	}

	return &Server{
		genAgent: genAgent,
		catalog:  store,
		logger:   opts.Logger,
		timeout:  opts.Timeout,
		metrics:  newMetrics(opts.Registry),
		registry: opts.Registry,
		staticFS: http.FileServer(http.FS(sub)),
	}, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/generateKit", s.handleGenerateKit)
	mux.HandleFunc("/products.json", s.handleProducts)
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	mux.Handle("/", s.staticFS)
	return logMiddleware(s.logger, mux)
}

// --- Handlers ---

type generateKitResp struct {
	generator.OutlinePlan
	DocxBase64 string `json:"docxBase64"`
	Filename   string `json:"filename"`
}

func (s *Server) handleGenerateKit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	logger := s.logger.With(slog.String("request_id", requestIDFrom(r.Context())))

	req, err := decodeKitRequest(r.Body)
	if err != nil {
		s.metrics.requests.WithLabelValues(outcomeInvalid).Inc()
		http.Error(w, "Invalid JSON body.", http.StatusBadRequest)
		return
	}
	if err := s.checkRequest(req); err != nil {
		s.metrics.requests.WithLabelValues(outcomeInvalid).Inc()
		logger.Info("kit request rejected", slog.String("reason", err.Error()), slog.String("product", req.ProductSlug))
		switch {
		case errors.Is(err, generator.ErrUnknownProduct):
			http.Error(w, "Unknown product.", http.StatusBadRequest)
		default:
			http.Error(w, "Missing required fields.", http.StatusBadRequest)
		}
		return
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	resp, fallback, err := s.generate(ctx, req)
	s.metrics.duration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.requests.WithLabelValues(outcomeError).Inc()
		logger.Error("kit generation failed",
			slog.String("product", req.ProductSlug),
			slog.String("error", err.Error()))
		http.Error(w, "Error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	outcome := outcomeOK
	if fallback {
		outcome = outcomeFallback
		s.metrics.fallbacks.Inc()
	}
	s.metrics.requests.WithLabelValues(outcome).Inc()
	logger.Info("kit generated",
		slog.String("product", req.ProductSlug),
		slog.String("mode", req.Mode),
		slog.Bool("fallback", fallback),
		slog.Duration("elapsed", time.Since(start)))
	writeJSON(w, resp)
}

// checkRequest rejects a request before any model cost is incurred.
func (s *Server) checkRequest(req generator.KitRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if _, ok := s.catalog.Current().Lookup(req.ProductSlug); !ok {
		return generator.ErrUnknownProduct
	}
	return nil
}

// generate runs the model and renders the document. Nothing partial is returned on error.
func (s *Server) generate(ctx context.Context, req generator.KitRequest) (generateKitResp, bool, error) {
	out, err := s.genAgent.Generate(ctx, req)
	if err != nil {
		return generateKitResp{}, false, err
	}
	doc, err := document.Render(out.Plan, document.Meta{
		ProductName:  req.ProductName,
		BusinessName: req.BusinessName,
	})
	if err != nil {
		return generateKitResp{}, false, err
	}
	return generateKitResp{
		OutlinePlan: out.Plan,
		DocxBase64:  base64.StdEncoding.EncodeToString(doc),
		Filename:    generator.Filename(req.ProductSlug),
	}, out.Fallback, nil
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	products := s.catalog.Current().Products()
	if products == nil {
		products = []catalog.Product{}
	}
	writeJSON(w, products)
}

// --- Helpers ---

// decodeKitRequest treats an empty body as an empty object.
func decodeKitRequest(body io.Reader) (generator.KitRequest, error) {
	var req generator.KitRequest
	data, err := io.ReadAll(io.LimitReader(body, maxBodyBytes+1))
	if err != nil {
		return req, err
	}
	if len(data) > maxBodyBytes {
		return req, errors.New("request body too large")
	}
	if strings.TrimSpace(string(data)) == "" {
		return req, nil
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return req, err
	}
	return req, nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

type ctxKey struct{}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))

		path := r.URL.Path
		if path == "" {
			path = "/"
		}
		logger.Debug("http request",
			slog.String("request_id", id),
			slog.String("method", r.Method),
			slog.String("path", path),
			slog.Int("status", rec.status),
			slog.Duration("elapsed", time.Since(start)))
	})
}
