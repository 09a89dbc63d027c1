package msgfile

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// DefaultPlaceholderToken is the marker a commit template carries where the
// issue key belongs.
const DefaultPlaceholderToken = "{branch}"

// DefaultBackupSuffix is appended to the message path when writing the
// pre-substitution backup.
const DefaultBackupSuffix = ".bak"

const (
	messageReadErrorTemplateConstant  = "reading commit message file %s: %w"
	backupWriteErrorTemplateConstant  = "writing commit message backup %s: %w"
	messageWriteErrorTemplateConstant = "writing commit message file %s: %w"
	fallbackMessageFileModeConstant   = 0o644
)

// ErrMessagePathRequired indicates Apply was invoked without a file path.
var ErrMessagePathRequired = errors.New("commit message file path is required")

// Substitution replaces a placeholder token inside a commit message file.
type Substitution struct {
	PlaceholderToken string
	BackupSuffix     string
}

// NewSubstitution returns a Substitution with defaults filled in for any
// empty field.
func NewSubstitution(placeholderToken string, backupSuffix string) Substitution {
	if len(placeholderToken) == 0 {
		placeholderToken = DefaultPlaceholderToken
	}
	if len(backupSuffix) == 0 {
		backupSuffix = DefaultBackupSuffix
	}
	return Substitution{PlaceholderToken: placeholderToken, BackupSuffix: backupSuffix}
}

// Apply replaces every occurrence of the placeholder token in the file at
// messagePath with issueKey, writing a backup of the original content
// alongside the file first. An empty issueKey removes the token. Files
// without the token are backed up and rewritten unchanged, keeping the
// operation idempotent.
func (substitution Substitution) Apply(messagePath string, issueKey string) error {
	trimmedPath := strings.TrimSpace(messagePath)
	if len(trimmedPath) == 0 {
		return ErrMessagePathRequired
	}

	originalContent, readError := os.ReadFile(trimmedPath)
	if readError != nil {
		return fmt.Errorf(messageReadErrorTemplateConstant, trimmedPath, readError)
	}

	fileMode := os.FileMode(fallbackMessageFileModeConstant)
	if fileInformation, statError := os.Stat(trimmedPath); statError == nil {
		fileMode = fileInformation.Mode().Perm()
	}

	backupPath := trimmedPath + substitution.BackupSuffix
	if backupError := os.WriteFile(backupPath, originalContent, fileMode); backupError != nil {
		return fmt.Errorf(backupWriteErrorTemplateConstant, backupPath, backupError)
	}

	updatedContent := strings.ReplaceAll(string(originalContent), substitution.PlaceholderToken, issueKey)
	if writeError := os.WriteFile(trimmedPath, []byte(updatedContent), fileMode); writeError != nil {
		return fmt.Errorf(messageWriteErrorTemplateConstant, trimmedPath, writeError)
	}
	return nil
}
