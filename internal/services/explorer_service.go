package services

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/censusstack/income-explorer/internal/charts"
	"github.com/censusstack/income-explorer/internal/dataset"
	"github.com/censusstack/income-explorer/internal/engine"
	"github.com/censusstack/income-explorer/internal/export"
	"github.com/censusstack/income-explorer/internal/metrics"
	"github.com/censusstack/income-explorer/internal/models"
	"github.com/censusstack/income-explorer/internal/render"
	"github.com/censusstack/income-explorer/internal/session"
	"github.com/censusstack/income-explorer/internal/utils"
)

// ErrUnknownPreset marks a request for a preset name the book does not hold.
var ErrUnknownPreset = errors.New("unknown preset")

// ExportResult carries one encoded download: the bytes plus the
// headers the transport should serve them under.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExplorerService is the facade the HTTP layer calls. It owns no
// domain state of its own: the dataset is immutable, per-session
// filter state lives in each session's engine, and the service wires
// the two to the chart builders and exporters.
type ExplorerService struct {
	logger    *slog.Logger
	ds        *dataset.Dataset
	sessions  *session.Manager
	presets   *engine.PresetBook
	latencies *utils.LatencyTracker
	now       func() time.Time
}

// NewExplorerService constructs the service facade.
func NewExplorerService(logger *slog.Logger, ds *dataset.Dataset, sessions *session.Manager, presets *engine.PresetBook) *ExplorerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExplorerService{
		logger:    logger,
		ds:        ds,
		sessions:  sessions,
		presets:   presets,
		latencies: utils.NewLatencyTracker(1024),
		now:       time.Now,
	}
}

// CreateSession opens a new session seeded with default parameters.
func (s *ExplorerService) CreateSession() (models.SessionState, error) {
	sess, err := s.sessions.Create()
	if err != nil {
		return models.SessionState{}, err
	}
	s.logger.Info("session created", slog.String("session_id", sess.ID()))
	return s.state(sess), nil
}

// DropSession discards a session and its cached view.
func (s *ExplorerService) DropSession(id string) error {
	if err := s.sessions.Drop(id); err != nil {
		return err
	}
	s.logger.Info("session dropped", slog.String("session_id", id))
	return nil
}

// Params reports a session's current parameters and view size.
func (s *ExplorerService) Params(id string) (models.SessionState, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return models.SessionState{}, err
	}
	return s.state(sess), nil
}

// UpdateParams applies a parameter patch to one session. A rejected
// patch leaves the session's parameters and cached view untouched.
func (s *ExplorerService) UpdateParams(id string, patch models.ParamPatch) (models.SessionState, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return models.SessionState{}, err
	}
	if _, err := sess.Engine().Apply(patch); err != nil {
		s.logger.Warn("parameter update rejected", slog.String("session_id", id), slog.Any("error", err))
		return models.SessionState{}, utils.NewAppError("params.update", "rejected parameter update", err)
	}
	return s.state(sess), nil
}

// ApplyPreset replaces part of a session's parameters with a named
// preset's patch.
func (s *ExplorerService) ApplyPreset(id, name string) (models.SessionState, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return models.SessionState{}, err
	}
	preset, ok := s.presets.Get(name)
	if !ok {
		return models.SessionState{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	if _, err := sess.Engine().Apply(preset.Patch); err != nil {
		return models.SessionState{}, utils.NewAppError("preset.apply", "preset rejected against loaded dataset", err)
	}
	s.logger.Info("preset applied", slog.String("session_id", id), slog.String("preset", name))
	return s.state(sess), nil
}

// Chart builds one chart artifact from the session's current view.
func (s *ExplorerService) Chart(id, name string) (models.Artifact, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return models.Artifact{}, err
	}
	v := sess.Engine().CurrentView()

	start := time.Now()
	art, err := charts.Build(name, v)
	if err != nil {
		return models.Artifact{}, err
	}
	metrics.ObserveChartBuild(name, time.Since(start))
	return art, nil
}

// Charts builds every registered chart from one shared view pull. The
// view is computed at most once per parameter state, so a full
// dashboard refresh costs one filter pass regardless of chart count.
func (s *ExplorerService) Charts(id string) ([]models.Artifact, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	v := sess.Engine().CurrentView()

	cycle := time.Now()
	names := charts.Names()
	artifacts := make([]models.Artifact, 0, len(names))
	for _, name := range names {
		start := time.Now()
		art, err := charts.Build(name, v)
		if err != nil {
			return nil, err
		}
		metrics.ObserveChartBuild(name, time.Since(start))
		artifacts = append(artifacts, art)
	}
	s.latencies.Observe(time.Since(cycle))
	if count := s.latencies.Count(); count >= 20 && count%20 == 0 {
		p95 := s.latencies.Percentile(95)
		s.logger.Info("dashboard render latency", slog.Duration("p95", p95), slog.Int("samples", count))
	}
	return artifacts, nil
}

// ChartPNG builds one chart and rasterizes it. Charts whose shape has
// no server-side raster form return render.ErrUnsupported; placeholder
// artifacts return render.ErrNoData.
func (s *ExplorerService) ChartPNG(id, name string) ([]byte, error) {
	art, err := s.Chart(id, name)
	if err != nil {
		return nil, err
	}
	return render.PNG(art)
}

// Export serializes the session's current global view in the given
// format. Local chart refinements never appear in a download.
func (s *ExplorerService) Export(id, format string) (ExportResult, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return ExportResult{}, err
	}
	v := sess.Engine().CurrentView()

	start := time.Now()
	var buf bytes.Buffer
	if err := export.Write(&buf, format, v); err != nil {
		metrics.ObserveExport(format, metrics.OutcomeError)
		if errors.Is(err, export.ErrUnsupportedFormat) {
			return ExportResult{}, err
		}
		s.logger.Error("export failed", slog.String("session_id", id), slog.String("format", format), slog.Any("error", err))
		return ExportResult{}, utils.NewAppError("export.write", "failed to encode filtered rows", err)
	}
	metrics.ObserveExport(format, metrics.OutcomeSuccess)
	s.logger.Info("export served",
		slog.String("session_id", id),
		slog.String("format", format),
		slog.Int("rows", v.Len()),
		slog.Duration("elapsed", time.Since(start)))

	return ExportResult{
		Filename:    export.Filename(format, s.now()),
		ContentType: export.ContentType(format),
		Data:        buf.Bytes(),
	}, nil
}

// Meta describes the loaded dataset, the chart registry and the preset
// book, so the UI can populate its controls without hardcoding them.
func (s *ExplorerService) Meta() models.Meta {
	f := s.ds.Facets()
	return models.Meta{
		Dataset: models.DatasetMeta{
			Rows:        s.ds.Len(),
			Columns:     s.ds.Columns(),
			Genders:     f.Genders,
			Races:       f.Races,
			Educations:  f.Educations,
			Occupations: f.Occupations,
			AgeMin:      f.AgeMin,
			AgeMax:      f.AgeMax,
			HoursMin:    f.HoursMin,
			HoursMax:    f.HoursMax,
		},
		Charts:   charts.Names(),
		Presets:  s.presets.Names(),
		Formats:  export.Formats(),
		Defaults: models.DefaultParams(),
	}
}

// LatencyP95 returns the current p95 dashboard render latency.
func (s *ExplorerService) LatencyP95() time.Duration {
	if s.latencies == nil {
		return 0
	}
	return s.latencies.Percentile(95)
}

func (s *ExplorerService) state(sess *session.Session) models.SessionState {
	eng := sess.Engine()
	v := eng.CurrentView()
	return models.SessionState{
		ID:      sess.ID(),
		Params:  eng.Params(),
		Version: eng.Version(),
		Rows:    v.Len(),
	}
}
