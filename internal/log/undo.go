package log

import (
	"fmt"
	"os"
)

// Undo replays a recorded session in reverse: links are removed, created
// directories are removed when empty, archive moves are moved back.

type UndoResult struct {
	Operation OperationRecord
	Success   bool
	Error     error
}

func UndoOperation(op OperationRecord) UndoResult {
	result := UndoResult{Operation: op}

	switch op.Type {
	case OpLink:
		if op.DestPath == "" {
			result.Error = fmt.Errorf("cannot undo link: destination path missing")
			return result
		}
		if _, err := os.Lstat(op.DestPath); os.IsNotExist(err) {
			// Link already removed.
			result.Success = true
			return result
		}
		if err := os.Remove(op.DestPath); err != nil {
			result.Error = fmt.Errorf("failed to remove link %s: %w", op.DestPath, err)
			return result
		}
		result.Success = true

	case OpMkdir:
		if op.DestPath == "" {
			result.Error = fmt.Errorf("cannot undo mkdir: path missing")
			return result
		}
		info, err := os.Stat(op.DestPath)
		if os.IsNotExist(err) {
			result.Success = true
			return result
		}
		if err == nil && !info.IsDir() {
			result.Error = fmt.Errorf("path %s is not a directory", op.DestPath)
			return result
		}
		entries, err := os.ReadDir(op.DestPath)
		if err != nil {
			result.Error = fmt.Errorf("failed to read directory %s: %w", op.DestPath, err)
			return result
		}
		if len(entries) > 0 {
			result.Error = fmt.Errorf("cannot remove directory %s: not empty", op.DestPath)
			return result
		}
		if err := os.Remove(op.DestPath); err != nil {
			result.Error = fmt.Errorf("failed to remove directory %s: %w", op.DestPath, err)
			return result
		}
		result.Success = true

	case OpMove:
		if op.SourcePath == "" || op.DestPath == "" {
			result.Error = fmt.Errorf("cannot undo move: path missing")
			return result
		}
		if _, err := os.Stat(op.DestPath); os.IsNotExist(err) {
			result.Error = fmt.Errorf("cannot undo move: %s not found", op.DestPath)
			return result
		}
		if _, err := os.Stat(op.SourcePath); err == nil {
			result.Error = fmt.Errorf("cannot undo move: original path %s already exists", op.SourcePath)
			return result
		}
		if err := os.Rename(op.DestPath, op.SourcePath); err != nil {
			result.Error = fmt.Errorf("failed to move %s back to %s: %w", op.DestPath, op.SourcePath, err)
			return result
		}
		result.Success = true

	case OpSkip:
		// Nothing was done, nothing to undo.
		result.Success = true

	default:
		result.Error = fmt.Errorf("unknown operation type: %s", op.Type)
	}

	return result
}

// UndoSession reverses the successful operations of a session, newest
// first.
func UndoSession(session *Session) (successful int, failed int, errors []error) {
	for i := len(session.Operations) - 1; i >= 0; i-- {
		op := session.Operations[i]
		if !op.Success || op.Type == OpSkip {
			continue
		}

		result := UndoOperation(op)
		if result.Success {
			successful++
			continue
		}
		failed++
		if result.Error != nil {
			errors = append(errors, result.Error)
		}
	}
	return successful, failed, errors
}

// FindLatestSession returns the most recent journal session, or nil
// when the journal is empty.
func FindLatestSession() (*Session, error) {
	sessions, err := ReadSessions(1)
	if err != nil {
		return nil, fmt.Errorf("failed to read sessions: %w", err)
	}
	if len(sessions) == 0 {
		return nil, nil
	}
	return sessions[0], nil
}
