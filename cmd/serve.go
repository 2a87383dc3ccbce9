package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/polygon-cli/internal/config"
	"github.com/sells-group/polygon-cli/internal/extract"
	"github.com/sells-group/polygon-cli/internal/polygon"
	"github.com/sells-group/polygon-cli/internal/render"
)

const (
	uploadField       = "file"
	requestIDHeader   = "X-Request-ID"
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the polygon upload server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if servePort != 0 {
			cfg.Server.Port = servePort
		}
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		proc, err := newProcessor(cfg.Process)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           buildRouter(proc, routerOptionsFrom(cfg.Server)),
			ReadHeaderTimeout: readHeaderTimeout,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				zap.L().Warn("server shutdown", zap.Error(err))
			}
		}()

		zap.L().Info("starting server", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// routerOptions holds the HTTP-facing server settings.
type routerOptions struct {
	MaxUploadBytes int64
	AllowedOrigins []string
	RateLimit      rate.Limit
	RateBurst      int
}

func routerOptionsFrom(sc config.ServerConfig) routerOptions {
	return routerOptions{
		MaxUploadBytes: sc.MaxUploadBytes(),
		AllowedOrigins: sc.AllowedOrigins,
		RateLimit:      rate.Limit(sc.RateLimit),
		RateBurst:      sc.RateBurst,
	}
}

// buildRouter wires the health check and the upload endpoint. Uploads share
// one token bucket across all clients.
func buildRouter(proc *extract.Processor, opts routerOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Use(rateLimit(rate.NewLimiter(opts.RateLimit, opts.RateBurst)))
		r.Post("/polygons", handleUpload(proc, opts.MaxUploadBytes))
	})

	return r
}

type loggerKey struct{}

// requestID tags each request with an id, taken from X-Request-ID when the
// client sends one, and attaches a logger carrying it to the context.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		log := zap.L().With(zap.String("request_id", id))
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), loggerKey{}, log)))
	})
}

func requestLogger(r *http.Request) *zap.Logger {
	if log, ok := r.Context().Value(loggerKey{}).(*zap.Logger); ok {
		return log
	}
	return zap.L()
}

func rateLimit(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				requestLogger(r).Warn("rate limit exceeded", zap.String("remote", r.RemoteAddr))
				writeError(w, http.StatusTooManyRequests, "Too many requests. Try again shortly.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// handleUpload processes one multipart upload and responds with the
// rendered result, JSON unless ?format= asks otherwise.
func handleUpload(proc *extract.Processor, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLogger(r)

		format := render.FormatJSON
		if q := r.URL.Query().Get("format"); q != "" {
			f, err := render.ParseFormat(q)
			if err != nil || f == render.FormatSHP {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("Unsupported output format %q.", q))
				return
			}
			format = f
		}

		if r.ContentLength > maxBytes {
			writeError(w, http.StatusRequestEntityTooLarge, "The upload is too large.")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

		file, header, err := r.FormFile(uploadField)
		if err != nil {
			var tooLarge *http.MaxBytesError
			switch {
			case errors.As(err, &tooLarge):
				writeError(w, http.StatusRequestEntityTooLarge, "The upload is too large.")
			case errors.Is(err, http.ErrMissingFile):
				writeError(w, http.StatusBadRequest, fmt.Sprintf("Missing multipart field %q.", uploadField))
			default:
				writeError(w, http.StatusBadRequest, "The request is not a valid multipart upload.")
			}
			return
		}
		defer file.Close() //nolint:errcheck

		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, http.StatusBadRequest, "The uploaded file could not be read.")
			return
		}

		res, err := proc.Process(r.Context(), header.Filename, data)
		if err != nil {
			status := uploadStatus(err)
			log.Warn("upload rejected",
				zap.String("file", header.Filename),
				zap.Int("status", status),
				zap.Error(err),
			)
			writeError(w, status, polygon.UserMessage(err))
			return
		}

		var buf bytes.Buffer
		if err := render.Write(&buf, format, []*polygon.Result{res}); err != nil {
			log.Error("render upload result", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "The result could not be rendered.")
			return
		}

		log.Info("upload processed",
			zap.String("file", header.Filename),
			zap.Int("polygons", len(res.Polygons)),
			zap.String("format", string(format)),
		)
		w.Header().Set("Content-Type", render.ContentType(format))
		if format == render.FormatXLSX {
			w.Header().Set("Content-Disposition", `attachment; filename="polygons.xlsx"`)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	}
}

// uploadStatus maps a processing error to its HTTP status.
func uploadStatus(err error) int {
	switch {
	case errors.Is(err, polygon.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, polygon.ErrFormat), errors.Is(err, polygon.ErrNoValidContent):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
