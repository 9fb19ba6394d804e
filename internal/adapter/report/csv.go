// Package report writes a run's output artifacts: matched and unmatched
// trade listings plus the broker execution summary.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/tradeflow/reconengine/internal/core"
	"github.com/tradeflow/reconengine/internal/domain"
)

const (
	TypeMatched   = "matched"
	TypeUnmatched = "unmatched"
	TypeSummary   = "broker_summary"
)

var fileNames = map[string]string{
	TypeMatched:   "matched_trades.csv",
	TypeUnmatched: "unmatched_trades.csv",
	TypeSummary:   "broker_summary.csv",
}

type Generator struct {
	dir string
}

func NewGenerator(dir string) *Generator {
	return &Generator{dir: dir}
}

// Path maps a report type to its artifact path. The second return is false
// for unknown types.
func (g *Generator) Path(reportType string) (string, bool) {
	name, ok := fileNames[reportType]
	if !ok {
		return "", false
	}
	return filepath.Join(g.dir, name), true
}

// Write regenerates all artifacts from a run's result set. Earlier artifacts
// are overwritten; a run that fails never reaches this point.
func (g *Generator) Write(results []domain.ReconciliationResult, scores []core.BrokerScore) error {
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return fmt.Errorf("report: create dir %s: %w", g.dir, err)
	}

	var matched, unmatched []domain.ReconciliationResult
	for _, r := range results {
		if r.Status == domain.StatusMatched {
			matched = append(matched, r)
		} else {
			unmatched = append(unmatched, r)
		}
	}
	if err := g.writeResults(TypeMatched, matched); err != nil {
		return err
	}
	if err := g.writeResults(TypeUnmatched, unmatched); err != nil {
		return err
	}
	return g.writeSummary(scores)
}

func (g *Generator) writeResults(reportType string, results []domain.ReconciliationResult) error {
	path, _ := g.Path(reportType)
	return g.writeCSV(path, resultHeader, func(w *csv.Writer) error {
		for _, r := range results {
			if err := w.Write(resultRow(r)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (g *Generator) writeSummary(scores []core.BrokerScore) error {
	path, _ := g.Path(TypeSummary)
	return g.writeCSV(path, summaryHeader, func(w *csv.Writer) error {
		for _, s := range scores {
			row := []string{
				s.PartyCode,
				s.MeanAbsSlippage.String(),
				s.TotalCost.String(),
				s.FillRate.String(),
				strconv.FormatFloat(s.Score, 'f', 4, 64),
				strconv.Itoa(s.Rank),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func (g *Generator) writeCSV(path string, header []string, body func(*csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := body(w); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	return f.Close()
}

var resultHeader = []string{
	"order_id", "client_id", "isin", "matched_quantity",
	"unmatched_quantity", "status", "total_cost", "execution_slippage",
}

var summaryHeader = []string{
	"party_code", "mean_abs_slippage", "total_cost", "fill_rate", "score", "rank",
}

func resultRow(r domain.ReconciliationResult) []string {
	orderID, clientID := "", ""
	if r.OrderID != nil {
		orderID = *r.OrderID
	}
	if r.ClientID != nil {
		clientID = *r.ClientID
	}
	slippage := ""
	if r.ExecutionSlippage.Valid {
		slippage = r.ExecutionSlippage.Decimal.String()
	}
	return []string{
		orderID,
		clientID,
		r.ISIN,
		strconv.FormatInt(r.MatchedQuantity, 10),
		strconv.FormatInt(r.UnmatchedQuantity, 10),
		string(r.Status),
		r.TotalCost.String(),
		slippage,
	}
}
