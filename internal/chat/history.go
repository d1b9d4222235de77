package chat

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// HistoryFile is a saved conversation transcript.
type HistoryFile struct {
	ID        string           `json:"id"`
	VaultRoot string           `json:"vault_root"`
	StartTime time.Time        `json:"start_time"`
	EndTime   time.Time        `json:"end_time"`
	Messages  []DisplayMessage `json:"messages"`
}

// HistoryManager persists transcripts under the user data directory so a
// conversation can be reviewed after the program exits.
type HistoryManager struct {
	dataDir string
}

// NewHistoryManager creates the history directory if needed.
func NewHistoryManager() (*HistoryManager, error) {
	dataDir, err := historyDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}
	return &HistoryManager{dataDir: dataDir}, nil
}

// Save writes the transcript as one JSON file and returns its id.
func (m *HistoryManager) Save(vaultRoot string, startTime time.Time, log *Log) (string, error) {
	file := HistoryFile{
		ID:        uuid.NewString(),
		VaultRoot: vaultRoot,
		StartTime: startTime,
		EndTime:   time.Now(),
		Messages:  log.Messages(),
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return "", err
	}

	filename := filepath.Join(m.dataDir, file.ID+".json")
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", err
	}
	return file.ID, nil
}

// Load reads a saved transcript by id.
func (m *HistoryManager) Load(id string) (*HistoryFile, error) {
	data, err := os.ReadFile(filepath.Join(m.dataDir, id+".json"))
	if err != nil {
		return nil, err
	}

	var file HistoryFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	return &file, nil
}

// List returns the ids of all saved transcripts.
func (m *HistoryManager) List() ([]string, error) {
	entries, err := os.ReadDir(m.dataDir)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		ids = append(ids, entry.Name()[:len(entry.Name())-5])
	}
	return ids, nil
}

// Delete removes a saved transcript.
func (m *HistoryManager) Delete(id string) error {
	return os.Remove(filepath.Join(m.dataDir, id+".json"))
}

func historyDir() (string, error) {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "vellum", "history"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".local", "share", "vellum", "history"), nil
}
