package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/voocheck/voocheck/internal/cache"
	"github.com/voocheck/voocheck/internal/ingest"
	"github.com/voocheck/voocheck/internal/services/batch"
)

const uploadFieldName = "planilha"

type httpOpts struct {
	httpAddr    string
	swaggerPath string
	onListen    func(httpAddr string)

	svc          *batch.Service
	resultsCache cache.BytesCache
}

func runHTTPServer(ctx context.Context, opts httpOpts) error {
	if opts.httpAddr == "" {
		opts.httpAddr = ":8080"
	}

	lis, err := net.Listen("tcp", opts.httpAddr)
	if err != nil {
		return err
	}
	if opts.onListen != nil {
		opts.onListen(lis.Addr().String())
	}

	r := newRouter(opts)

	srv := &http.Server{Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		_ = lis.Close()
	}()

	return srv.Serve(lis)
}

func newRouter(opts httpOpts) chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	})

	r.Post("/upload", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if opts.svc == nil {
			writeJSONError(w, http.StatusServiceUnavailable, "batch service not wired")
			return
		}

		file, hdr, err := req.FormFile(uploadFieldName)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("multipart field %q is required", uploadFieldName))
			return
		}
		defer file.Close()

		path, err := saveUpload(file, hdr.Filename)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to store upload")
			return
		}
		defer os.Remove(path)

		rows, err := ingest.ParseRows(path)
		if err != nil {
			if errors.Is(err, ingest.ErrUnsupportedFileType) {
				writeJSONError(w, http.StatusBadRequest, "unsupported file type, expected .xlsx or .csv")
				return
			}
			writeJSONError(w, http.StatusBadRequest, "failed to parse spreadsheet")
			return
		}

		// A started batch runs to completion even if the uploader disconnects.
		results := opts.svc.Run(context.WithoutCancel(req.Context()), rows)
		_ = json.NewEncoder(w).Encode(results)
	})

	r.Get("/progress", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if opts.svc == nil {
			writeJSONError(w, http.StatusServiceUnavailable, "batch service not wired")
			return
		}
		_ = json.NewEncoder(w).Encode(opts.svc.Progress())
	})

	r.Get("/results/latest", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if opts.resultsCache == nil {
			writeJSONError(w, http.StatusServiceUnavailable, "results cache not wired")
			return
		}
		raw, ok, err := opts.resultsCache.Get(req.Context(), batch.LatestResultsKey)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, "results lookup failed")
			return
		}
		if !ok {
			writeJSONError(w, http.StatusNotFound, "no batch results yet")
			return
		}
		_, _ = w.Write(raw)
	})

	// Swagger is wired only when the doc file is configured.
	if opts.swaggerPath != "" {
		r.Get("/swagger.json", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "no-store")
			http.ServeFile(w, r, opts.swaggerPath)
		})

		swaggerURL := "/swagger.json"
		if fi, err := os.Stat(opts.swaggerPath); err == nil {
			swaggerURL = fmt.Sprintf("/swagger.json?v=%d", fi.ModTime().Unix())
		}
		r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL(swaggerURL)))
	}

	return r
}

// saveUpload spills the multipart file to a temp path, keeping the original
// extension so the parser can pick the right decoder.
func saveUpload(src io.Reader, filename string) (string, error) {
	tmp, err := os.CreateTemp("", "voocheck-upload-*"+filepath.Ext(filename))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

func writeJSONError(w http.ResponseWriter, code int, msg string) {
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
