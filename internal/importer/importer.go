// Package importer ingests guest rows produced from a spreadsheet into the
// planner, one row at a time, collecting per-row errors instead of aborting.
package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lalith-99/eventboard/internal/models"
	"github.com/lalith-99/eventboard/internal/planner"
)

// unassignedLabel is how exported sheets mark a guest without a table.
const unassignedLabel = "Unassigned"

// Planner is the part of planner.Service the importer drives.
type Planner interface {
	ListTables(ctx context.Context) ([]models.Table, error)
	AddTable(ctx context.Context, in planner.TableInput) (*models.Table, error)
	AddOrUpdateGuest(ctx context.Context, in planner.GuestInput) (*models.Guest, bool, error)
	UpdateTable(ctx context.Context, id uuid.UUID, p planner.TablePatch) (*models.Table, error)
}

// RowError points at one rejected row. Row is 1-based.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// Result summarizes one import. Created counts rows that went through, which
// includes rows merged into an existing guest by name.
//
// Why report errors per row instead of failing the request?
//   - A sheet is typed by hand. One bad status cell should not throw away
//     the other two hundred rows.
//   - Rows are not rolled back. Re-running the same sheet is safe because
//     guests merge by name and tables are matched by name.
type Result struct {
	Created       int        `json:"createdCount"`
	TablesCreated int        `json:"tablesCreated"`
	Errors        []RowError `json:"errors"`
}

// OK reports whether every row went through.
func (r *Result) OK() bool {
	return len(r.Errors) == 0
}

// Importer turns sheet rows into planner calls.
//
// Why go through the planner instead of writing the state directly?
//   - Merge-by-name, seating and the live feed then behave exactly as they do
//     for a guest added from the dashboard.
//   - The price is one store write per call. An import is a one-off of a few
//     hundred rows, so that is fine.
type Importer struct {
	planner Planner
	logger  *zap.Logger
}

// New builds an Importer. logger may be nil.
func New(p Planner, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{planner: p, logger: logger}
}

type Options struct {
	// DryRun validates every row and reports what would fail, without
	// touching the store.
	DryRun bool
}

// Import processes rows in order. Rows are never processed concurrently:
// a table created for row N must be found in the cache by row N+1.
//
// The only error returned is a failure to load the initial table list;
// everything else ends up in Result.Errors.
func (im *Importer) Import(ctx context.Context, rows []Row, opts Options) (*Result, error) {
	res := &Result{Errors: make([]RowError, 0)}

	if opts.DryRun {
		for i, row := range rows {
			if _, err := row.normalize(); err != nil {
				res.Errors = append(res.Errors, RowError{Row: i + 1, Reason: err.Error()})
			}
		}
		return res, nil
	}

	tables, err := im.planner.ListTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	cache := newTableCache(tables)

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			res.Errors = append(res.Errors, RowError{Row: i + 1, Reason: err.Error()})
			continue
		}
		tableCreated, err := im.importRow(ctx, cache, row)
		if tableCreated {
			res.TablesCreated++
		}
		if err != nil {
			res.Errors = append(res.Errors, RowError{Row: i + 1, Reason: err.Error()})
			continue
		}
		res.Created++
	}

	im.logger.Info("guest import finished",
		zap.Int("rows", len(rows)),
		zap.Int("imported", res.Created),
		zap.Int("tables_created", res.TablesCreated),
		zap.Int("failed", len(res.Errors)),
	)
	return res, nil
}

func (im *Importer) importRow(ctx context.Context, cache *tableCache, row Row) (bool, error) {
	n, err := row.normalize()
	if err != nil {
		return false, err
	}

	var (
		target       *models.Table
		tableCreated bool
	)
	if n.table != "" && n.table != unassignedLabel {
		target = cache.get(n.table)
		if target == nil {
			created, err := im.planner.AddTable(ctx, planner.TableInput{
				Name:      n.table,
				Seats:     models.DefaultSeats,
				Type:      models.TableStandard,
				Confirmed: true,
			})
			if err != nil {
				return false, fmt.Errorf("create table %q: %w", n.table, err)
			}
			target = cache.put(created)
			tableCreated = true
		}
	}

	guest, _, err := im.planner.AddOrUpdateGuest(ctx, planner.GuestInput{
		Name:      n.name,
		Instagram: n.instagram,
		Status:    n.status,
		Confirmed: n.status == models.StatusConfirmed,
		Gender:    n.gender,
		Age:       n.age,
	})
	if err != nil {
		return tableCreated, fmt.Errorf("save guest: %w", err)
	}

	if target == nil {
		return tableCreated, nil
	}

	if !target.HasGuest(guest.ID) {
		target.Guests = append(target.Guests, guest.ID)
	}
	guests := append([]uuid.UUID(nil), target.Guests...)
	updated, err := im.planner.UpdateTable(ctx, target.ID, planner.TablePatch{
		Guests: models.Some(guests),
	})
	if err != nil {
		return tableCreated, fmt.Errorf("seat guest at %q: %w", target.Name, err)
	}
	target.Guests = updated.Guests
	return tableCreated, nil
}

// tableCache maps lower-cased table names to the importer's working copy of
// each table. It is seeded once per import and only changed locally.
type tableCache struct {
	byName map[string]*models.Table
}

func newTableCache(tables []models.Table) *tableCache {
	c := &tableCache{byName: make(map[string]*models.Table, len(tables))}
	for i := range tables {
		t := tables[i]
		key := strings.ToLower(t.Name)
		if _, ok := c.byName[key]; ok {
			continue
		}
		c.byName[key] = &t
	}
	return c
}

func (c *tableCache) get(name string) *models.Table {
	return c.byName[strings.ToLower(name)]
}

func (c *tableCache) put(t *models.Table) *models.Table {
	c.byName[strings.ToLower(t.Name)] = t
	return t
}
