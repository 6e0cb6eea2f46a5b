// Package api exposes the hpmri service over HTTP with the same routes the
// visualisation front end already calls.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/cmplx"
	"net/http"
	"strconv"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gonum.org/v1/gonum/mat"

	"hpmri/internal/models"
	"hpmri/pkg/config"
	"hpmri/pkg/hpmri"
	"hpmri/pkg/logger"
	"hpmri/pkg/volume"
)

// Server routes HTTP requests to a Service
type Server struct {
	svc     *hpmri.Service
	cfg     *config.Config
	log     logger.ILogger
	router  *mux.Router
	metrics *requestMetrics
}

// NewServer builds the router. Each server has its own metrics registry.
func NewServer(svc *hpmri.Service, cfg *config.Config, log logger.ILogger) *Server {
	reg := prometheus.NewRegistry()
	s := &Server{
		svc:     svc,
		cfg:     cfg,
		log:     log,
		router:  mux.NewRouter(),
		metrics: newRequestMetrics(reg),
	}

	s.router.HandleFunc("/get_count_datasets", s.jsonHandler(s.countDatasets)).Methods(http.MethodGet)
	s.router.HandleFunc("/get_num_slider_values", s.jsonHandler(s.countSlices)).Methods(http.MethodGet)
	s.router.HandleFunc("/datasets", s.jsonHandler(s.inventory)).Methods(http.MethodGet)
	s.router.HandleFunc("/acquisition/{dataset:[0-9]+}", s.jsonHandler(s.acquisition)).Methods(http.MethodGet)
	s.router.HandleFunc("/get_hp_mri_data/{dataset:[0-9]+}", s.jsonHandler(s.hpMRIData)).Methods(http.MethodPost, http.MethodGet)
	s.router.HandleFunc("/get_spectrum/{dataset:[0-9]+}", s.jsonHandler(s.spectrum)).Methods(http.MethodGet)
	s.router.HandleFunc("/get_proton_picture/{slice:[0-9]+}", s.protonPicture).Methods(http.MethodPost)
	s.router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	s.router.Use(s.metrics.middleware)
	return s
}

// Handler returns the router wrapped in CORS handling for the configured origins
func (s *Server) Handler() http.Handler {
	return handlers.CORS(
		handlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type"}),
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		handlers.AllowedOrigins(s.cfg.Server.AllowedOrigins),
	)(s.router)
}

// ListenAndServe serves on the configured address until it fails
func (s *Server) ListenAndServe() error {
	s.log.Infof("Listening on %s", s.cfg.Server.Address)
	return http.ListenAndServe(s.cfg.Server.Address, s.Handler())
}

type jsonHandlerFunc func(r *http.Request) (interface{}, error)

func (s *Server) jsonHandler(fn jsonHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := fn(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			s.log.Errorf("%s %s: failed to write response: %v", r.Method, r.URL.Path, err)
		}
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Errorf("%s %s: %v", r.Method, r.URL.Path, err)
	} else {
		s.log.Infof("%s %s: %v", r.Method, r.URL.Path, err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func pathInt(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		return 0, badRequest(fmt.Errorf("invalid %s: %w", name, err))
	}
	return v, nil
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest(fmt.Errorf("invalid %s: %w", name, err))
	}
	return v, nil
}

// queryPosition reads the optional sliceView, slice, echo and nex selectors
func queryPosition(r *http.Request) (volume.Position, error) {
	var pos volume.Position
	var err error
	if pos.SliceView, err = queryInt(r, "sliceView", 0); err != nil {
		return pos, err
	}
	if pos.Slice, err = queryInt(r, "slice", 0); err != nil {
		return pos, err
	}
	if pos.Echo, err = queryInt(r, "echo", 0); err != nil {
		return pos, err
	}
	if pos.NEX, err = queryInt(r, "nex", 0); err != nil {
		return pos, err
	}
	return pos, nil
}

func (s *Server) countDatasets(r *http.Request) (interface{}, error) {
	return map[string]int{"numDatasets": s.svc.DatasetCount()}, nil
}

func (s *Server) countSlices(r *http.Request) (interface{}, error) {
	return map[string]int{"numSliderValues": s.svc.SliceCount()}, nil
}

func (s *Server) inventory(r *http.Request) (interface{}, error) {
	return s.svc.Inventory(r.Context())
}

func (s *Server) acquisition(r *http.Request) (interface{}, error) {
	index, err := pathInt(r, "dataset")
	if err != nil {
		return nil, err
	}
	return s.svc.DecodeAcquisition(index)
}

// HPMRIResponse is the thresholded magnitude of one plane of a dataset
type HPMRIResponse struct {
	Dimensions models.Dimensions `json:"dimensions"`
	Threshold  float64           `json:"threshold"`
	Masked     int               `json:"masked"`
	Slice      int               `json:"slice"`
	Echo       int               `json:"echo"`
	Plane      [][]float64       `json:"plane"`
}

func (s *Server) hpMRIData(r *http.Request) (interface{}, error) {
	index, err := pathInt(r, "dataset")
	if err != nil {
		return nil, err
	}

	threshold := s.cfg.Extraction.DefaultThreshold
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		threshold, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, badRequest(fmt.Errorf("invalid threshold: %w", err))
		}
	}

	pos, err := queryPosition(r)
	if err != nil {
		return nil, err
	}

	arr, _, err := s.svc.ExtractThresholded(index, threshold)
	if err != nil {
		return nil, err
	}

	plane, err := volume.Plane(arr, pos)
	if err != nil {
		return nil, err
	}

	masked := 0
	for _, v := range arr.Data {
		if v == 0 {
			masked++
		}
	}

	return HPMRIResponse{
		Dimensions: arr.Dims,
		Threshold:  threshold,
		Masked:     masked,
		Slice:      pos.Slice,
		Echo:       pos.Echo,
		Plane:      rows(plane),
	}, nil
}

// SpectrumResponse is the spectrum of one view of a dataset, split into
// magnitude and phase per frequency bin
type SpectrumResponse struct {
	View      int       `json:"view"`
	Slice     int       `json:"slice"`
	Echo      int       `json:"echo"`
	Magnitude []float64 `json:"magnitude"`
	Phase     []float64 `json:"phase"`
}

func (s *Server) spectrum(r *http.Request) (interface{}, error) {
	index, err := pathInt(r, "dataset")
	if err != nil {
		return nil, err
	}
	view, err := queryInt(r, "view", 0)
	if err != nil {
		return nil, err
	}
	pos, err := queryPosition(r)
	if err != nil {
		return nil, err
	}

	coeffs, err := s.svc.Spectrum(index, view, pos)
	if err != nil {
		return nil, err
	}

	resp := SpectrumResponse{
		View:      view,
		Slice:     pos.Slice,
		Echo:      pos.Echo,
		Magnitude: make([]float64, len(coeffs)),
		Phase:     make([]float64, len(coeffs)),
	}
	for i, c := range coeffs {
		resp.Magnitude[i] = cmplx.Abs(c)
		resp.Phase[i] = cmplx.Phase(c)
	}
	return resp, nil
}

func rows(m *mat.Dense) [][]float64 {
	r, _ := m.Dims()
	out := make([][]float64, r)
	for i := range out {
		out[i] = mat.Row(nil, i, m)
	}
	return out
}

// MagnetType is the only scanner whose data this server decodes
const MagnetType = "MR Solutions"

type protonRequest struct {
	Contrast   *float64 `json:"contrast"`
	MagnetType string   `json:"magnetType"`
}

func (s *Server) protonPicture(w http.ResponseWriter, r *http.Request) {
	index, err := pathInt(r, "slice")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req protonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, r, badRequest(fmt.Errorf("invalid request body: %w", err)))
		return
	}

	if req.MagnetType != "" && req.MagnetType != MagnetType {
		s.writeError(w, r, badRequest(fmt.Errorf("unsupported magnet type %q", req.MagnetType)))
		return
	}

	contrast := s.cfg.Proton.DefaultContrast
	if req.Contrast != nil {
		contrast = *req.Contrast
	}

	png, err := s.svc.EnhanceProtonSlice(index, contrast)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
