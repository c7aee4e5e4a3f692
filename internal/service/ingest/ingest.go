// Package ingest загружает книги Excel с данными о вознаграждениях
// директоров в хранилище.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/compayre/backend/internal/pkg/logger"
	"github.com/compayre/backend/internal/pkg/store"
)

// ErrStructural marks problems found before any write: missing file or
// sheet, unreadable workbook, missing required columns.
var ErrStructural = errors.New("structural error")

// errDryRun откатывает транзакцию пробного прогона.
var errDryRun = errors.New("dry run")

type Options struct {
	Path string
	// Sheet ограничивает загрузку одним листом; пусто значит все листы.
	Sheet  string
	DryRun bool
	// Name подменяет имя файла в отчёте (загрузка через API).
	Name string
}

type Service struct {
	tx store.Transactor
}

func NewService(tx store.Transactor) *Service {
	return &Service{tx: tx}
}

// IngestFile загружает книгу в одной транзакции. Ошибка строки откатывает
// только её savepoint и попадает в отчёт.
func (s *Service) IngestFile(ctx context.Context, opts Options) (*Summary, error) {
	if _, err := os.Stat(opts.Path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStructural, err)
	}

	name := opts.Name
	if name == "" {
		name = filepath.Base(opts.Path)
	}
	summary := newSummary(name, opts.DryRun)
	ctx = logger.WithFields(ctx, "run_id", summary.RunID.String(), "file", name)

	wb, err := openWorkbook(opts.Path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	sheets, err := prepareSheets(ctx, wb, opts.Sheet, summary)
	if err != nil {
		return nil, err
	}

	err = s.tx.InTx(ctx, func(gw store.Gateway) error {
		state := newRunState()
		summary.Sheets = summary.Sheets[:0]
		var pending []deferredPeer
		for _, sh := range sheets {
			stats, unknown, err := loadSheet(ctx, gw, state, sh)
			if err != nil {
				return err
			}
			summary.Sheets = append(summary.Sheets, stats)
			pending = append(pending, unknown...)
		}

		// компании из более поздних листов могли закрыть отложенных пиров
		unknown, err := retryDeferredPeers(ctx, gw, state, pending)
		if err != nil {
			return err
		}
		dropPeers(ctx, unknown)
		if opts.DryRun {
			return errDryRun
		}
		return nil
	})
	if err != nil && !errors.Is(err, errDryRun) {
		return nil, fmt.Errorf("ingest %s: %w", name, err)
	}

	summary.finish()
	logger.Infof(ctx, "ingest finished: %d rows, %d skipped, %d created",
		summary.Rows, summary.Skipped, summary.Totals.Created())

	return summary, nil
}

// prepareSheets выполняет все структурные проверки до первой записи.
func prepareSheets(ctx context.Context, wb *workbook, only string, summary *Summary) ([]*sheet, error) {
	names := wb.sheetNames()
	if only != "" {
		if !wb.hasSheet(only) {
			return nil, fmt.Errorf("%w: sheet %q not found, available: %v", ErrStructural, only, names)
		}
		names = []string{only}
	}

	sheets := make([]*sheet, 0, len(names))
	for _, name := range names {
		kind := classifySheet(name)
		if kind == kindUnknown {
			logger.Warnf(ctx, "sheet %q: unknown type, skipping", name)
			summary.IgnoredSheets = append(summary.IgnoredSheets, name)
			continue
		}

		sh, err := wb.load(name, kind)
		if err != nil {
			return nil, err
		}
		if sh == nil {
			logger.Warnf(ctx, "sheet %q is empty, skipping", name)
			summary.IgnoredSheets = append(summary.IgnoredSheets, name)
			continue
		}
		logger.Debugf(ctx, "sheet %q: %s, %d rows, %d columns", name, kind, len(sh.rows), len(sh.headers))
		sheets = append(sheets, sh)
	}

	// компании раньше директоров, пиры последними
	sort.SliceStable(sheets, func(i, j int) bool {
		return sheets[i].kind < sheets[j].kind
	})

	return sheets, nil
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if !IsBlank(cell) {
			return false
		}
	}
	return true
}

// loadSheet возвращает пиров, компании которых к концу листа так и не появились.
func loadSheet(ctx context.Context, gw store.Gateway, state *runState, sh *sheet) (*SheetStats, []deferredPeer, error) {
	ctx = logger.WithFields(ctx, "sheet", sh.name)
	stats := &SheetStats{Sheet: sh.name, Kind: sh.kind.String(), SkippedRows: make([]SkippedRow, 0)}
	load := sh.kind.loader()

	var deferred []deferredPeer
	for i, row := range sh.rows {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if isEmptyRow(row) {
			continue
		}

		stats.Rows++
		scope := state.newRow(rowNumber(i))
		err := gw.Savepoint(ctx, func(gw store.Gateway) error {
			return load(ctx, gw, scope, sh.cols, row)
		})
		if err != nil {
			logger.Debugf(ctx, "row %d skipped: %s", scope.row, truncate(err.Error(), maxErrorMessage))
			stats.skip(scope.row, err)
			continue
		}
		deferred = append(deferred, scope.commit(stats)...)
	}

	unknown, err := retryDeferredPeers(ctx, gw, state, deferred)
	if err != nil {
		return nil, nil, err
	}

	logger.Infof(ctx, "sheet loaded: %d rows, %d skipped, %d created", stats.Rows, stats.Skipped, stats.Counts.Created())
	return stats, unknown, nil
}

var errPeerUnknown = errors.New("peer company not found")

// retryDeferredPeers повторяет пиров, чьи компании ещё не были загружены,
// когда строка их встретила. Возвращает тех, чьи компании всё ещё неизвестны.
func retryDeferredPeers(ctx context.Context, gw store.Gateway, state *runState, deferred []deferredPeer) ([]deferredPeer, error) {
	var unknown []deferredPeer
	for _, d := range deferred {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		peer := d.peer
		scope := state.newRow(d.row)
		err := gw.Savepoint(ctx, func(gw store.Gateway) error {
			known, err := scope.companyExists(ctx, gw, peer.PeerCompanyID)
			if err != nil {
				return err
			}
			if !known {
				return errPeerUnknown
			}
			return scope.upsertPeer(ctx, gw, &peer)
		})
		switch {
		case errors.Is(err, errPeerUnknown):
			unknown = append(unknown, d)
		case err != nil:
			d.stats.PeersDropped++
			logger.Debugf(ctx, "row %d: peer %s of %s dropped: %v", d.row, peer.PeerCompanyID, peer.CompanyID, err)
		default:
			scope.commit(d.stats)
		}
	}
	return unknown, nil
}

func dropPeers(ctx context.Context, peers []deferredPeer) {
	for _, d := range peers {
		d.stats.PeersDropped++
		logger.Debugf(ctx, "row %d: peer %s of %s dropped: %v", d.row, d.peer.PeerCompanyID, d.peer.CompanyID, errPeerUnknown)
	}
}
