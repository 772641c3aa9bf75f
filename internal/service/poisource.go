package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/joeblew999/plat-visits/internal/db"
)

// POISource supplies the point-of-interest table for a category.
type POISource interface {
	POIs(ctx context.Context, category string) ([]POI, error)
}

// StaticPOISource serves POI tables held in memory, keyed by category.
type StaticPOISource map[string][]POI

// POIs implements POISource.
func (s StaticPOISource) POIs(ctx context.Context, category string) ([]POI, error) {
	pois := s[category]
	out := make([]POI, len(pois))
	copy(out, pois)
	return out, nil
}

// SQLPOISource reads POIs from a table with latitude, longitude, label,
// category and county columns. Rows keep the table's insertion order.
type SQLPOISource struct {
	DB    *sql.DB
	Table string
}

// POIs implements POISource.
func (s *SQLPOISource) POIs(ctx context.Context, category string) ([]POI, error) {
	if s.DB == nil {
		return nil, eris.New("poi source: database not available")
	}
	if !db.ValidIdent(s.Table) {
		return nil, eris.Errorf("poi source: invalid table name %q", s.Table)
	}

	q := fmt.Sprintf(`SELECT latitude, longitude, label, coalesce(county, '') FROM %s WHERE lower(category) = lower(?) ORDER BY rowid`, s.Table)
	rows, err := s.DB.QueryContext(ctx, q, category)
	if err != nil {
		return nil, eris.Wrapf(err, "poi source: query %s", s.Table)
	}
	defer rows.Close()

	pois := []POI{}
	for rows.Next() {
		p := POI{Category: category}
		if err := rows.Scan(&p.Latitude, &p.Longitude, &p.Label, &p.County); err != nil {
			return nil, eris.Wrap(err, "poi source: scan")
		}
		pois = append(pois, p)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "poi source: rows")
	}
	return pois, nil
}
