package locationrepo

import (
	"database/sql"

	"github.com/yanqian/surf-forecast/internal/domain/location"
)

// locationColumns is shared by the SQL repositories so both scan the same layout.
const locationColumns = `id, name, kind, parent_id, coast_id, latitude, longitude, orientation, active, map_name, map_updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLocation(row rowScanner) (location.Location, error) {
	var (
		rec          location.Location
		kind         string
		parentID     sql.NullInt64
		coastID      sql.NullInt64
		latitude     sql.NullFloat64
		longitude    sql.NullFloat64
		orientation  sql.NullInt64
		active       bool
		mapName      sql.NullString
		mapUpdatedAt sql.NullString
	)
	if err := row.Scan(&rec.ID, &rec.Name, &kind, &parentID, &coastID, &latitude, &longitude, &orientation, &active, &mapName, &mapUpdatedAt); err != nil {
		return location.Location{}, err
	}
	rec.Kind = location.Kind(kind)
	rec.ParentID = parentID.Int64
	rec.CoastID = coastID.Int64
	if latitude.Valid && longitude.Valid {
		rec.Coordinates = &location.Coordinates{Latitude: latitude.Float64, Longitude: longitude.Float64}
	}
	if orientation.Valid {
		o := int(orientation.Int64)
		rec.Orientation = &o
	}
	rec.Inactive = !active
	rec.MapName = mapName.String
	rec.MapUpdatedAt = mapUpdatedAt.String
	return rec, nil
}

// locationArgs flattens a record into the column order of locationColumns.
func locationArgs(rec location.Location) []any {
	var (
		parentID, coastID, orientation any
		latitude, longitude            any
		mapName, mapUpdatedAt          any
	)
	if rec.ParentID != 0 {
		parentID = rec.ParentID
	}
	if rec.CoastID != 0 {
		coastID = rec.CoastID
	}
	if rec.Coordinates != nil {
		latitude, longitude = rec.Coordinates.Latitude, rec.Coordinates.Longitude
	}
	if rec.Orientation != nil {
		orientation = int64(*rec.Orientation)
	}
	if rec.MapName != "" {
		mapName = rec.MapName
	}
	if rec.MapUpdatedAt != "" {
		mapUpdatedAt = rec.MapUpdatedAt
	}
	return []any{rec.ID, rec.Name, string(rec.Kind), parentID, coastID, latitude, longitude, orientation, !rec.Inactive, mapName, mapUpdatedAt}
}
