package api

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ssargent/fortrec/pkg/codec"
	"github.com/ssargent/fortrec/pkg/dtype"
	"github.com/ssargent/fortrec/pkg/fortfile"
)

const defaultRecordLimit = 100

// Server holds the inspection server state
type Server struct {
	config  ServerConfig
	metrics *Metrics
}

// NewServer creates a new inspection server
func NewServer(config ServerConfig, metrics *Metrics) *Server {
	return &Server{config: config, metrics: metrics}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleRecords dumps the records of one file, decoded with the type spec
// from the ?spec= query parameter (comma-separated codes for
// heterogeneous records; omitted for raw bytes). ?limit= caps the number
// of records returned.
func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	path, err := s.resolveFile(chi.URLParam(r, "name"))
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	specs, err := parseSpecs(r.URL.Query().Get("spec"))
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	limit := defaultRecordLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			sendError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
	}

	start := time.Now()
	var views []RecordView
	err = fortfile.With(path, s.readOptions(), func(f *fortfile.File) error {
		for len(views) < limit {
			v, err := f.ReadRecord(specs...)
			if errors.Is(err, codec.ErrEndOfFile) {
				return nil
			}
			if err != nil {
				return err
			}
			views = append(views, RecordView{
				Ordinal: int64(len(views)),
				Length:  v.Nbytes(),
				Value:   renderValue(v),
			})
		}
		return nil
	})
	s.metrics.RecordScan(int64(len(views)), err != nil, time.Since(start))

	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			sendError(w, "file not found", http.StatusNotFound)
			return
		}
		sendError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	sendSuccess(w, views)
}

// handleStat scans one file with the framer only and reports record
// counts and sizes.
func (s *Server) handleStat(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	path, err := s.resolveFile(name)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		sendError(w, "file not found", http.StatusNotFound)
		return
	}

	start := time.Now()
	stat := FileStat{Name: name, FileBytes: info.Size()}
	err = fortfile.With(path, s.readOptions(), func(f *fortfile.File) error {
		for {
			v, err := f.ReadRecord()
			if errors.Is(err, codec.ErrEndOfFile) {
				return nil
			}
			if err != nil {
				return err
			}
			stat.Records++
			stat.BodyBytes += v.Nbytes()
		}
	})
	s.metrics.RecordScan(stat.Records, err != nil, time.Since(start))

	if err != nil {
		sendError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	sendSuccess(w, stat)
}

func (s *Server) readOptions() fortfile.Options {
	return fortfile.Options{
		Mode:        fortfile.Read,
		MarkerWidth: s.config.MarkerWidth,
		Order:       s.config.Order,
	}
}

// resolveFile maps a file name from the URL into the data directory,
// rejecting anything that would escape it.
func (s *Server) resolveFile(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("file name is required")
	}
	if strings.ContainsAny(name, "/\\") || name == ".." {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	return filepath.Join(s.config.DataDir, name), nil
}

func parseSpecs(raw string) ([]dtype.Spec, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	specs := make([]dtype.Spec, len(parts))
	for i, p := range parts {
		code := dtype.Code(strings.TrimSpace(p))
		if _, err := dtype.Resolve(code); err != nil {
			return nil, err
		}
		specs[i] = code
	}
	return specs, nil
}

// renderValue flattens a codec result for the JSON surface
func renderValue(v codec.Value) interface{} {
	if v.IsScalar() {
		if b, ok := v.Bytes(); ok {
			return string(b)
		}
		return v.Scalar()
	}
	if arr := v.Array(); arr != nil {
		return renderArray(arr)
	}
	if st := v.Struct(); st != nil {
		cols := make(map[string]interface{}, len(st.Names()))
		for _, name := range st.Names() {
			cols[name] = renderArray(st.Field(name))
		}
		return cols
	}
	return nil
}

func renderArray(a *codec.Array) interface{} {
	switch a.Desc().Kind {
	case dtype.Int:
		return a.Ints()
	case dtype.Uint:
		return a.Uints()
	case dtype.Float:
		return a.Floats()
	default:
		out := make([]string, a.Len())
		for i, b := range a.Raw() {
			out[i] = string(b)
		}
		return out
	}
}

