package support

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// AuditDir is the repository-relative directory holding formstool state.
const AuditDir = ".formstool"

type AuditEntry struct {
	ID           string   `json:"id"`
	TimestampUtc string   `json:"timestampUtc"`
	Mode         string   `json:"mode"`
	Component    string   `json:"component,omitempty"`
	Custom       int      `json:"custom,omitempty"`
	OOTB         int      `json:"ootb,omitempty"`
	Files        []string `json:"files,omitempty"`
	Changed      bool     `json:"changed"`
	Result       string   `json:"result"`
}

// AppendAudit appends entry as one JSON line to <root>/.formstool/audit.log.
func AppendAudit(root string, entry AuditEntry) error {
	entry.ID = uuid.NewString()
	entry.TimestampUtc = time.Now().UTC().Format(time.RFC3339)
	path := filepath.Join(root, AuditDir, "audit.log")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	_, err = f.Write(append(data, '\n'))
	return err
}
