// Package mailbox ingests broker fills from contract-note spreadsheets
// attached to .eml files dropped in a watched directory.
package mailbox

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jhillyerd/enmime"
	"go.uber.org/zap"

	"github.com/tradeflow/reconengine/internal/domain"
	"github.com/tradeflow/reconengine/internal/port"
)

var _ port.FillSource = (*Source)(nil)

type Source struct {
	dir string
	log *zap.Logger
}

func NewSource(dir string, log *zap.Logger) *Source {
	return &Source{dir: dir, log: log}
}

// FetchFills parses every .eml file in the mailbox directory, extracts xlsx
// attachments, and concatenates their rows into one fill collection. Files
// without spreadsheet attachments are skipped; a file that cannot be parsed
// fails the fetch.
func (s *Source) FetchFills(ctx context.Context) ([]*domain.BrokerFill, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("mailbox: read dir %s: %w", s.dir, err)
	}

	var fills []*domain.BrokerFill
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".eml") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(s.dir, entry.Name())
		parsed, err := s.extractFile(path)
		if err != nil {
			return nil, err
		}
		fills = append(fills, parsed...)
	}
	return fills, nil
}

func (s *Source) extractFile(path string) ([]*domain.BrokerFill, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mailbox: read %s: %w", path, err)
	}
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("mailbox: parse %s: %w", path, err)
	}

	var fills []*domain.BrokerFill
	for _, att := range env.Attachments {
		if !strings.EqualFold(filepath.Ext(att.FileName), ".xlsx") {
			continue
		}
		parsed, err := parseWorkbook(bytes.NewReader(att.Content))
		if err != nil {
			return nil, fmt.Errorf("mailbox: attachment %s in %s: %w", att.FileName, path, err)
		}
		s.log.Info("extracted broker fills from attachment",
			zap.String("file", path),
			zap.String("attachment", att.FileName),
			zap.Int("rows", len(parsed)))
		fills = append(fills, parsed...)
	}
	return fills, nil
}
