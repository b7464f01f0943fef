/*
Package history provides functionality to manage the history of reported announcements.
*/
package history

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/shanehull/kapscraper/internal/types"
)

const (
	historyFileName = "kap_report_history.json"
	historyDirName  = "kapscraper"
	dateLayout      = "2006-01-02"

	// Searches span up to a year, so ids are remembered a little longer.
	retentionDays = 400
)

type History struct {
	ReportDate string
	// Reported maps an announcement id to the date it was first reported.
	Reported map[string]string
}

type Manager struct {
	history         History
	mutex           sync.Mutex
	historyFilePath string
	reportLocation  *time.Location
	now             func() time.Time
}

// NewManager loads the history file from dir, or from a directory under the
// OS temp dir when dir is empty.
func NewManager(tzName string, dir string) (*Manager, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), historyDirName)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory %s: %w", dir, err)
	}

	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone name '%s': %w", tzName, err)
	}

	m := &Manager{
		historyFilePath: filepath.Join(dir, historyFileName),
		reportLocation:  loc,
		now:             time.Now,
	}

	m.loadHistory()
	return m, nil
}

func (m *Manager) loadHistory() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	today := m.getCurrentReportDate()
	m.history = History{
		ReportDate: today,
		Reported:   make(map[string]string),
	}

	data, err := os.ReadFile(m.historyFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("History file %s not found. Starting fresh history.", m.historyFilePath)
			return
		}
		log.Printf("Error reading history file (%s): %v. Starting fresh history.", m.historyFilePath, err)
		return
	}

	var loadedHistory History
	if err := json.Unmarshal(data, &loadedHistory); err != nil {
		log.Printf("Error unmarshalling history JSON: %v. Starting fresh history.", err)
		return
	}

	cutoff := m.now().In(m.reportLocation).AddDate(0, 0, -retentionDays).Format(dateLayout)
	pruned := 0
	for id, date := range loadedHistory.Reported {
		if date < cutoff {
			pruned++
			continue
		}
		m.history.Reported[id] = date
	}

	log.Printf("Loaded %d reported announcements (%d expired).", len(m.history.Reported), pruned)
}

func (m *Manager) saveHistory() {
	m.history.ReportDate = m.getCurrentReportDate()

	data, err := json.MarshalIndent(m.history, "", "  ")
	if err != nil {
		log.Printf("Error marshalling history for save: %v", err)
		return
	}

	if err := os.WriteFile(m.historyFilePath, data, 0o644); err != nil {
		log.Printf("Error writing history file %s: %v", m.historyFilePath, err)
	} else {
		log.Printf("Successfully saved report history to %s.", m.historyFilePath)
	}
}

// FilterNewMatches drops matches whose announcement was already reported.
func (m *Manager) FilterNewMatches(matches []types.Match) []types.Match {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	var fresh []types.Match
	for _, match := range matches {
		if _, seen := m.history.Reported[match.ID]; seen {
			continue
		}
		fresh = append(fresh, match)
	}
	return fresh
}

func (m *Manager) RecordMatches(matches []types.Match) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	today := m.getCurrentReportDate()
	for _, match := range matches {
		if _, seen := m.history.Reported[match.ID]; !seen {
			m.history.Reported[match.ID] = today
		}
	}
	m.saveHistory()
}

func (m *Manager) HistoryFilePath() string {
	return m.historyFilePath
}

func (m *Manager) getCurrentReportDate() string {
	return m.now().In(m.reportLocation).Format(dateLayout)
}
