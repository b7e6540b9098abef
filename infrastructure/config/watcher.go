package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	domaincfg "github.com/olinekleiven/snarveg/domain/config"
)

// Tuning is the runtime-changeable gesture and route tuning, loaded from a
// YAML file. Zero values fall back to the compiled-in defaults, so a tuning
// file only needs the keys it overrides.
type Tuning struct {
	MaxDestinations     int     `yaml:"max_destinations"`
	InitialPlaceholders int     `yaml:"initial_placeholders"`
	WheelRadius         float64 `yaml:"wheel_radius"`
	HitRadius           float64 `yaml:"hit_radius"`
	HoverLockMillis     int     `yaml:"hover_lock_millis"`
	LockConfirmMillis   int     `yaml:"lock_confirm_millis"`
	LongPressMillis     int     `yaml:"long_press_millis"`
	JitterThreshold     float64 `yaml:"jitter_threshold"`
	RouteBaseMinutes    int     `yaml:"route_base_minutes"`
	RoutePerLegMinutes  int     `yaml:"route_per_leg_minutes"`
	RouteBaseDistanceKm float64 `yaml:"route_base_distance_km"`
	RoutePerLegDistKm   float64 `yaml:"route_per_leg_distance_km"`
}

// DomainConfig merges the tuning over the compiled-in defaults
func (t *Tuning) DomainConfig() *domaincfg.DomainConfig {
	cfg := domaincfg.DefaultDomainConfig()
	if t == nil {
		return cfg
	}
	if t.MaxDestinations > 0 {
		cfg.MaxDestinations = t.MaxDestinations
	}
	if t.InitialPlaceholders > 0 {
		cfg.InitialPlaceholders = t.InitialPlaceholders
	}
	if t.WheelRadius > 0 {
		cfg.WheelRadius = t.WheelRadius
	}
	if t.HitRadius > 0 {
		cfg.HitRadius = t.HitRadius
	}
	if t.HoverLockMillis > 0 {
		cfg.HoverLockDuration = time.Duration(t.HoverLockMillis) * time.Millisecond
	}
	if t.LockConfirmMillis > 0 {
		cfg.LockConfirmDuration = time.Duration(t.LockConfirmMillis) * time.Millisecond
	}
	if t.LongPressMillis > 0 {
		cfg.LongPressDuration = time.Duration(t.LongPressMillis) * time.Millisecond
	}
	if t.JitterThreshold > 0 {
		cfg.JitterThreshold = t.JitterThreshold
	}
	if t.RouteBaseMinutes > 0 {
		cfg.RouteBaseDuration = time.Duration(t.RouteBaseMinutes) * time.Minute
	}
	if t.RoutePerLegMinutes > 0 {
		cfg.RoutePerLegDuration = time.Duration(t.RoutePerLegMinutes) * time.Minute
	}
	if t.RouteBaseDistanceKm > 0 {
		cfg.RouteBaseDistanceKm = t.RouteBaseDistanceKm
	}
	if t.RoutePerLegDistKm > 0 {
		cfg.RoutePerLegDistKm = t.RoutePerLegDistKm
	}
	return cfg
}

func (t *Tuning) validate() error {
	if t.MaxDestinations < 0 {
		return fmt.Errorf("max_destinations cannot be negative")
	}
	if t.HoverLockMillis < 0 || t.LockConfirmMillis < 0 || t.LongPressMillis < 0 {
		return fmt.Errorf("timer durations cannot be negative")
	}
	if t.JitterThreshold < 0 || t.HitRadius < 0 {
		return fmt.Errorf("distance thresholds cannot be negative")
	}
	return nil
}

// TuningWatcher watches the tuning file and serves the current merged
// domain configuration. New sessions pick up changes; running sessions keep
// the configuration they started with.
type TuningWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	logger  *zap.Logger

	mu      sync.RWMutex
	current *domaincfg.DomainConfig

	onChange []func(*domaincfg.DomainConfig)
	stopCh   chan struct{}
}

// NewTuningWatcher loads the tuning file and starts watching it for
// changes. An empty path yields a watcher that always serves defaults.
func NewTuningWatcher(path string, logger *zap.Logger) (*TuningWatcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	tw := &TuningWatcher{
		path:    path,
		logger:  logger,
		current: domaincfg.DefaultDomainConfig(),
		stopCh:  make(chan struct{}),
	}
	if path == "" {
		return tw, nil
	}

	cfg, err := loadTuningFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load tuning file: %w", err)
	}
	tw.current = cfg

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch tuning file: %w", err)
	}
	// Watch the directory too, for editors that save via rename
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		logger.Warn("failed to watch tuning directory", zap.Error(err))
	}
	tw.watcher = watcher

	return tw, nil
}

// Start begins watching for tuning changes
func (w *TuningWatcher) Start() {
	if w.watcher == nil {
		return
	}
	go w.watchLoop()
	w.logger.Info("tuning watcher started", zap.String("path", w.path))
}

// Stop stops the watcher
func (w *TuningWatcher) Stop() {
	close(w.stopCh)
	if w.watcher != nil {
		w.watcher.Close()
	}
}

// Current returns the current merged domain configuration
func (w *TuningWatcher) Current() *domaincfg.DomainConfig {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// OnChange registers a callback for tuning changes
func (w *TuningWatcher) OnChange(handler func(*domaincfg.DomainConfig)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, handler)
}

func (w *TuningWatcher) watchLoop() {
	var debounce *time.Timer
	const debounceDelay = 100 * time.Millisecond

	for {
		select {
		case <-w.stopCh:
			if debounce != nil {
				debounce.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(debounceDelay, w.reload)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("tuning watcher error", zap.Error(err))
		}
	}
}

func (w *TuningWatcher) reload() {
	cfg, err := loadTuningFile(w.path)
	if err != nil {
		w.logger.Error("failed to reload tuning, keeping current", zap.Error(err))
		return
	}

	w.mu.Lock()
	w.current = cfg
	handlers := make([]func(*domaincfg.DomainConfig), len(w.onChange))
	copy(handlers, w.onChange)
	w.mu.Unlock()

	w.logger.Info("tuning reloaded",
		zap.String("path", w.path),
		zap.Duration("hover_lock", cfg.HoverLockDuration),
		zap.Int("max_destinations", cfg.MaxDestinations),
	)
	for _, handler := range handlers {
		go handler(cfg)
	}
}

func loadTuningFile(path string) (*domaincfg.DomainConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var tuning Tuning
	if err := yaml.Unmarshal(data, &tuning); err != nil {
		return nil, fmt.Errorf("failed to parse tuning YAML: %w", err)
	}
	if err := tuning.validate(); err != nil {
		return nil, err
	}
	return tuning.DomainConfig(), nil
}
