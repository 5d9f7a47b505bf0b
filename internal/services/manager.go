// Package services provides background service orchestration for the TUI.
package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/gen2brain/beeep"

	"github.com/modelgate/console/internal/api"
	"github.com/modelgate/console/internal/config"
	"github.com/modelgate/console/internal/db"
	"github.com/modelgate/console/internal/logger"
	"github.com/modelgate/console/internal/models"
)

// snapshotRetentionDays bounds the locally persisted trend history.
const snapshotRetentionDays = 30

type (
	// MetricsUpdatedEvent is emitted after each successful metrics poll.
	MetricsUpdatedEvent struct {
		Metrics *models.Metrics
	}

	// ConfigReloadedEvent is emitted after the env file changed on disk
	// and the new configuration has been applied.
	ConfigReloadedEvent struct {
		Config *config.Config
	}

	// ErrorEvent is emitted when a background service fails.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (MetricsUpdatedEvent) isServiceEvent() {}
func (ConfigReloadedEvent) isServiceEvent() {}
func (ErrorEvent) isServiceEvent()          {}

// Manager runs the background metrics poller and the config file watcher
// and fans their events out to UI subscribers.
type Manager struct {
	mu          sync.RWMutex
	cfg         *config.Config
	client      *api.Client
	database    *db.DB
	watcher     *fsnotify.Watcher
	eventChan   chan ServiceEvent
	stopChan    chan struct{}
	refreshCh   chan struct{}
	subscribers []chan<- ServiceEvent

	debounceTimer *time.Timer
	alerted       bool
	lastMetrics   *models.Metrics
	// windowHours overrides the configured aggregation window while the
	// user cycles through windows in the dashboard; 0 means use config.
	windowHours int
}

// NewManager creates a new service manager and starts its background
// loops.
func NewManager(cfg *config.Config, client *api.Client) (*Manager, error) {
	m := &Manager{
		cfg:       cfg,
		client:    client,
		eventChan: make(chan ServiceEvent, 100),
		stopChan:  make(chan struct{}),
		refreshCh: make(chan struct{}, 1),
	}

	var err error
	m.database, err = db.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// A restart must not re-notify for an excursion the operator already
	// saw; seed the edge detector from the previous session's last sample.
	if last, err := m.database.LatestSnapshot(); err == nil && last != nil && last.TotalRequests > 0 {
		rate := float64(last.ErrorCount) / float64(last.TotalRequests)
		m.alerted = rate >= cfg.ErrorRateThreshold
	}

	if err := m.startWatcher(); err != nil {
		// Live reload is a convenience; run without it.
		logger.Warn("config watcher disabled", "error", err)
	}

	go m.pollMetrics()

	return m, nil
}

// pollMetrics periodically fetches gateway metrics until Close.
func (m *Manager) pollMetrics() {
	// Initial refresh
	m.refreshMetrics()

	ticker := time.NewTicker(m.interval())
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.refreshMetrics()
		case <-m.refreshCh:
			// Interval may have changed with the config.
			ticker.Reset(m.interval())
			m.refreshMetrics()
		case <-m.stopChan:
			return
		}
	}
}

func (m *Manager) interval() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg.MetricsRefreshInterval
}

// refreshMetrics fetches one metrics sample, persists it, and broadcasts
// the result.
func (m *Manager) refreshMetrics() {
	m.mu.RLock()
	timeout := m.cfg.RequestTimeout
	hours := m.cfg.MetricsWindowHours
	if m.windowHours > 0 {
		hours = m.windowHours
	}
	m.mu.RUnlock()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	metrics, err := m.client.Metrics(ctx, hours)
	if err != nil {
		m.broadcast(ErrorEvent{Service: "metrics", Error: err})
		return
	}

	snapshot := &models.MetricSnapshot{
		TotalRequests: metrics.TotalRequests,
		SuccessCount:  metrics.SuccessCount,
		ErrorCount:    metrics.ErrorCount,
		TotalTokens:   metrics.TotalTokens,
		AvgTps:        metrics.AvgTps,
	}
	if err := m.database.InsertMetricSnapshot(snapshot); err != nil {
		logger.Error("failed to persist metric snapshot", "error", err)
	}
	if _, err := m.database.PruneSnapshots(snapshotRetentionDays); err != nil {
		logger.Error("failed to prune metric snapshots", "error", err)
	}

	m.checkErrorRate(metrics)

	m.mu.Lock()
	m.lastMetrics = metrics
	m.mu.Unlock()

	m.broadcast(MetricsUpdatedEvent{Metrics: metrics})
}

// checkErrorRate raises one desktop notification per excursion above the
// configured threshold, re-arming once the rate drops back below it.
func (m *Manager) checkErrorRate(metrics *models.Metrics) {
	m.mu.Lock()
	threshold := m.cfg.ErrorRateThreshold
	rate := metrics.ErrorRate()

	notify := false
	if metrics.TotalRequests > 0 && rate >= threshold {
		if !m.alerted {
			m.alerted = true
			notify = true
		}
	} else {
		m.alerted = false
	}
	m.mu.Unlock()

	if notify {
		title := "ModelGate: elevated error rate"
		body := fmt.Sprintf("%.1f%% of gateway requests are failing", rate*100)
		_ = beeep.Notify(title, body, "")
	}
}

// startWatcher watches the env file's directory for config changes.
func (m *Manager) startWatcher() error {
	m.mu.RLock()
	envFile := m.cfg.EnvFile
	m.mu.RUnlock()

	// Config came from process env only, nothing to watch.
	if envFile == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	m.watcher = watcher

	// Watch the directory (to catch file creation/deletion)
	dir := filepath.Dir(envFile)
	if err := watcher.Add(dir); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}

	go m.watchLoop(envFile)
	return nil
}

// watchLoop handles file system events with debouncing.
func (m *Manager) watchLoop(envFile string) {
	const debounceInterval = 500 * time.Millisecond

	for {
		select {
		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}

			// Only care about our env file
			if filepath.Base(event.Name) != filepath.Base(envFile) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				// Debounce rapid changes
				if m.debounceTimer != nil {
					m.debounceTimer.Stop()
				}
				m.debounceTimer = time.AfterFunc(debounceInterval, m.reloadConfig)
			}

		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			m.broadcast(ErrorEvent{Service: "config", Error: err})

		case <-m.stopChan:
			return
		}
	}
}

// reloadConfig re-reads configuration after the env file changed on disk.
func (m *Manager) reloadConfig() {
	cfg, err := config.Load()
	if err != nil {
		m.broadcast(ErrorEvent{Service: "config", Error: err})
		return
	}

	m.mu.Lock()
	m.cfg = cfg
	m.mu.Unlock()

	m.client.SetToken(cfg.APIToken)

	// Pick up a changed refresh interval without waiting out the old one.
	select {
	case m.refreshCh <- struct{}{}:
	default:
	}

	logger.Info("configuration reloaded", "file", cfg.EnvFile)
	m.broadcast(ConfigReloadedEvent{Config: cfg})
}

// RefreshNow triggers an immediate metrics poll outside the regular
// schedule.
func (m *Manager) RefreshNow() {
	select {
	case m.refreshCh <- struct{}{}:
	default:
	}
}

// SetWindowHours changes the metrics aggregation window and triggers an
// immediate poll under the new one. Zero restores the configured default.
func (m *Manager) SetWindowHours(hours int) {
	m.mu.Lock()
	m.windowHours = hours
	m.mu.Unlock()
	m.RefreshNow()
}

// WindowHours returns the currently effective aggregation window.
func (m *Manager) WindowHours() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.windowHours > 0 {
		return m.windowHours
	}
	return m.cfg.MetricsWindowHours
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	// Send to main event channel
	select {
	case m.eventChan <- event:
	default:
	}

	// Send to subscribers
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, waitForEvent(ch)
}

// waitForEvent returns a tea.Cmd that waits for the next event.
func waitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return waitForEvent(ch)
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Config returns the currently effective configuration.
func (m *Manager) Config() *config.Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

// Client returns the gateway API client.
func (m *Manager) Client() *api.Client {
	return m.client
}

// Database returns the database instance for direct access.
func (m *Manager) Database() *db.DB {
	return m.database
}

// LastMetrics returns the most recently polled metrics, or nil before the
// first successful poll.
func (m *Manager) LastMetrics() *models.Metrics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastMetrics
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	close(m.stopChan)

	if m.watcher != nil {
		if err := m.watcher.Close(); err != nil {
			logger.Error("failed to close watcher", "error", err)
		}
	}

	m.mu.Lock()
	for _, sub := range m.subscribers {
		close(sub)
	}
	m.subscribers = nil
	m.mu.Unlock()

	if m.database != nil {
		return m.database.Close()
	}
	return nil
}
