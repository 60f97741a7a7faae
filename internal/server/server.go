// Package server exposes the classifier over HTTP: upload an invoice export
// and download the workbook ready for the accounting import.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/Veraticus/facturas/internal/common"
	"github.com/Veraticus/facturas/internal/engine"
)

// XLSXContentType is the media type of the downloaded workbook.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// User-facing messages, in the language of the people filing the invoices.
const (
	msgEmptyInput = "El archivo está vacío o no contiene datos en la fila 3 en adelante."
	msgParseError = "Error al leer el archivo Excel"
	msgTooLarge   = "El archivo supera el tamaño máximo permitido."
	msgNoFile     = "Falta el archivo: envíalo en el campo \"file\"."
)

// Options configures the server.
type Options struct {
	// MaxUploadBytes caps the request body.
	MaxUploadBytes int64
	// Filename is offered to the browser for the download.
	Filename string
}

// Server is an http.Server wired to a Processor.
type Server struct {
	*http.Server
	processor *engine.Processor
	logger    *slog.Logger
	opts      Options
}

// New creates a server listening on addr.
func New(addr string, processor *engine.Processor, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 32 << 20
	}
	if opts.Filename == "" {
		opts.Filename = "clasificado_para_importar.xlsx"
	}

	s := &Server{
		processor: processor,
		logger:    logger,
		opts:      opts,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("POST /classify", s.handleClassify)

	s.Server = &http.Server{
		Addr:              addr,
		Handler:           s.withLogging(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server")
	return s.Server.Shutdown(ctx)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)

	upload, name, err := s.uploadedFile(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	defer func() { _ = upload.Close() }()

	result, err := s.processor.Process(r.Context(), upload)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	summary := result.Summary()
	common.LogInfo(s.logger, "Classified upload", common.Fields{
		"file":   name,
		"rows":   result.Dataset.Len(),
		"sheets": len(summary),
	})

	w.Header().Set("Content-Type", XLSXContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": s.opts.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(int(result.Output.Size())))
	w.Header().Set("X-Classified-Rows", strconv.Itoa(result.Dataset.Len()))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, result.Output); err != nil {
		s.logger.Warn("Failed to stream workbook", "error", err)
	}
}

// uploadedFile accepts either a multipart form with a "file" field or the
// workbook as the raw request body.
func (s *Server) uploadedFile(r *http.Request) (io.ReadCloser, string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return r.Body, "body", nil
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, "", err
		}
		return nil, "", errMissingFile
	}
	return file, header.Filename, nil
}

var errMissingFile = errors.New("missing file field")

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var maxErr *http.MaxBytesError

	switch {
	case errors.As(err, &maxErr):
		http.Error(w, msgTooLarge, http.StatusRequestEntityTooLarge)
	case errors.Is(err, errMissingFile):
		http.Error(w, msgNoFile, http.StatusBadRequest)
	case errors.Is(err, common.ErrEmptyInput):
		http.Error(w, msgEmptyInput, http.StatusUnprocessableEntity)
	case errors.Is(err, common.ErrParse):
		http.Error(w, fmt.Sprintf("%s: %v", msgParseError, err), http.StatusBadRequest)
	case errors.Is(err, context.Canceled):
		s.logger.Debug("Client went away", "path", r.URL.Path)
		return
	default:
		common.LogError(s.logger, err, "Classification failed", common.Fields{"path": r.URL.Path})
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	s.logger.Warn("Rejected upload", "path", r.URL.Path, "error", err)
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		s.logger.Debug("Request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.status,
			"duration", time.Since(start))
	})
}
