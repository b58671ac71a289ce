package primecount

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/primecount/internal/usage"
	"github.com/viant/primecount/service/allocator"
	"github.com/viant/primecount/service/messaging"
	"github.com/viant/primecount/service/producer"
	"gopkg.in/yaml.v3"
)

// Report format names.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Report summarises a completed run.
type Report struct {
	RunID      string           `json:"runId" yaml:"runId"`
	Primes     int64            `json:"primes" yaml:"primes"`
	Processed  int64            `json:"processed" yaml:"processed"`
	Enqueued   int64            `json:"enqueued" yaml:"enqueued"`
	Workers    int              `json:"workers" yaml:"workers"`
	Queue      messaging.Kind   `json:"queue" yaml:"queue"`
	Duration   time.Duration    `json:"duration" yaml:"duration"`
	Rate       float64          `json:"rate,omitempty" yaml:"rate,omitempty"`
	Producer   producer.Stats   `json:"producer" yaml:"producer"`
	QueueStats messaging.Stats  `json:"queueStats" yaml:"queueStats"`
	Arena      *allocator.Stats `json:"arena,omitempty" yaml:"arena,omitempty"`
	Usage      *usage.Usage     `json:"usage,omitempty" yaml:"usage,omitempty"`
}

// String returns the one line summary printed by the CLI.
func (r *Report) String() string {
	return fmt.Sprintf("%d total primes.", r.Primes)
}

// Encode renders the report as YAML or JSON.
func (r *Report) Encode(format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		return json.MarshalIndent(r, "", "  ")
	case FormatYAML, "yml", "":
		return yaml.Marshal(r)
	}
	return nil, fmt.Errorf("unsupported report format: %v", format)
}

// Upload writes the report to URL; the format follows the URL extension and
// defaults to YAML.
func (r *Report) Upload(ctx context.Context, fs afs.Service, URL string) error {
	if fs == nil {
		fs = afs.New()
	}
	format := strings.TrimPrefix(path.Ext(URL), ".")
	if format != FormatJSON {
		format = FormatYAML
	}
	data, err := r.Encode(format)
	if err != nil {
		return err
	}
	if err = fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to upload report %v: %w", URL, err)
	}
	return nil
}
