package log

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// Operation journal.
//
// Every executed filesystem operation is recorded in a per-run JSON
// session file so runs can be audited and undone. Dry runs record
// nothing.

type OperationType string

const (
	OpLink     OperationType = "link"
	OpMkdir    OperationType = "mkdir"
	OpMove     OperationType = "move"
	OpSkip     OperationType = "skip"
)

type OperationRecord struct {
	ID         string        `json:"id"`
	Timestamp  time.Time     `json:"timestamp"`
	Type       OperationType `json:"type"`
	SourcePath string        `json:"source_path,omitempty"`
	DestPath   string        `json:"dest_path,omitempty"`
	Success    bool          `json:"success"`
	Error      string        `json:"error,omitempty"`
}

type SessionMetadata struct {
	CommandArgs   []string  `json:"command_args"`
	WorkingDir    string    `json:"working_dir"`
	Timestamp     time.Time `json:"timestamp"`
	SessionID     string    `json:"session_id"`
	TotalOps      int       `json:"total_operations"`
	SuccessfulOps int       `json:"successful_operations"`
	FailedOps     int       `json:"failed_operations"`
}

type Session struct {
	Metadata   SessionMetadata   `json:"metadata"`
	Operations []OperationRecord `json:"operations"`
}

var (
	currentSession *Session
	sessionMutex   sync.Mutex
	journalEnabled = true
)

// Initialize sets up the journal and prunes sessions older than the
// retention window.
func Initialize(enabled bool, retentionDays int) {
	sessionMutex.Lock()
	defer sessionMutex.Unlock()

	journalEnabled = enabled
	if enabled {
		if err := cleanupOldSessionsUnsafe(retentionDays); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to clean up old journal files: %v\n", err)
		}
	}
}

// StartSession begins recording a new run.
func StartSession(args []string) error {
	sessionMutex.Lock()
	defer sessionMutex.Unlock()

	if !journalEnabled {
		return nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	now := time.Now()
	sessionID := fmt.Sprintf("%s_%03d", now.Format("20060102_150405"), now.Nanosecond()/1000000)

	currentSession = &Session{
		Metadata: SessionMetadata{
			CommandArgs: args,
			WorkingDir:  wd,
			Timestamp:   now,
			SessionID:   sessionID,
		},
		Operations: []OperationRecord{},
	}
	return nil
}

// EndSession persists the current session and closes it.
func EndSession() error {
	sessionMutex.Lock()
	defer sessionMutex.Unlock()

	if !journalEnabled || currentSession == nil {
		return nil
	}

	updateStats()
	err := WriteSession(currentSession)
	currentSession = nil
	return err
}

// LogLink records a hard link creation.
func LogLink(sourcePath, destPath string, success bool, err error) {
	logOperation(OpLink, sourcePath, destPath, success, err)
}

// LogMkdir records a directory creation.
func LogMkdir(dirPath string, success bool, err error) {
	logOperation(OpMkdir, "", dirPath, success, err)
}

// LogMove records an archive move.
func LogMove(sourcePath, destPath string, success bool, err error) {
	logOperation(OpMove, sourcePath, destPath, success, err)
}

// LogSkip records an entry excluded from execution.
func LogSkip(sourcePath, destPath string, err error) {
	logOperation(OpSkip, sourcePath, destPath, true, err)
}

func logOperation(opType OperationType, sourcePath, destPath string, success bool, err error) {
	sessionMutex.Lock()
	defer sessionMutex.Unlock()

	if !journalEnabled || currentSession == nil {
		return
	}

	op := OperationRecord{
		ID:         fmt.Sprintf("%s_%d", currentSession.Metadata.SessionID, len(currentSession.Operations)),
		Timestamp:  time.Now(),
		Type:       opType,
		SourcePath: sourcePath,
		DestPath:   destPath,
		Success:    success,
	}
	if err != nil {
		op.Error = err.Error()
	}
	currentSession.Operations = append(currentSession.Operations, op)
}

func updateStats() {
	if currentSession == nil {
		return
	}
	successful, failed := 0, 0
	for _, op := range currentSession.Operations {
		if op.Success {
			successful++
		} else {
			failed++
		}
	}
	currentSession.Metadata.TotalOps = len(currentSession.Operations)
	currentSession.Metadata.SuccessfulOps = successful
	currentSession.Metadata.FailedOps = failed
}

func journalDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".anishelf", "logs"), nil
}

func sessionPath() (string, error) {
	dir, err := journalDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create journal directory: %w", err)
	}
	now := time.Now()
	filename := fmt.Sprintf("%s.%03d.json", now.Format("2006-01-02_150405"), now.Nanosecond()/1000000)
	return filepath.Join(dir, filename), nil
}

// WriteSession persists a session to a new journal file.
func WriteSession(session *Session) error {
	if session == nil {
		return nil
	}

	path, err := sessionPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write journal file: %w", err)
	}
	return nil
}

// ReadSession loads one journal file.
func ReadSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read journal file: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// ReadSessions returns up to limit sessions, newest first. Corrupted
// files are skipped.
func ReadSessions(limit int) ([]*Session, error) {
	dir, err := journalDir()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return []*Session{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list journal files: %w", err)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(files)))
	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}

	sessions := make([]*Session, 0, len(files))
	for _, file := range files {
		session, err := ReadSession(file)
		if err != nil {
			continue
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

func cleanupOldSessionsUnsafe(retentionDays int) error {
	dir, err := journalDir()
	if err != nil {
		return err
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return fmt.Errorf("failed to list journal files: %w", err)
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(file); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to remove old journal file %s: %v\n", file, err)
			}
		}
	}
	return nil
}
