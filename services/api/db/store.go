// Package db persists the location registry in Postgres.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hyderaqi/hyderaqi/services/api/aqi"
	"github.com/hyderaqi/hyderaqi/services/api/registry"
)

// Store wraps database access helpers.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store backed by a pgx pool.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

const schemaSQL = `
    CREATE SCHEMA IF NOT EXISTS hyderaqi;
    CREATE TABLE IF NOT EXISTS hyderaqi.locations (
        id           text PRIMARY KEY,
        position     integer NOT NULL,
        name         text NOT NULL,
        aqi          integer NOT NULL,
        pm25         double precision NOT NULL,
        pm10         double precision NOT NULL,
        no2          double precision NOT NULL,
        so2          double precision NOT NULL,
        co           double precision NOT NULL,
        o3           double precision NOT NULL,
        temperature  double precision NOT NULL,
        humidity     double precision NOT NULL,
        map_x        double precision,
        map_y        double precision,
        last_updated timestamptz NOT NULL,
        updated_at   timestamptz NOT NULL DEFAULT NOW()
    );
`

// EnsureSchema creates the locations table when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// locationRow mirrors one hyderaqi.locations row.
type locationRow struct {
	ID          string
	Position    int
	Name        string
	AQI         int
	PM25        float64
	PM10        float64
	NO2         float64
	SO2         float64
	CO          float64
	O3          float64
	Temperature float64
	Humidity    float64
	MapX        *float64
	MapY        *float64
	LastUpdated time.Time
}

func rowFromLocation(position int, loc aqi.Location) locationRow {
	row := locationRow{
		ID:          loc.ID,
		Position:    position,
		Name:        loc.Name,
		AQI:         loc.AQI,
		PM25:        loc.Pollutants.PM25,
		PM10:        loc.Pollutants.PM10,
		NO2:         loc.Pollutants.NO2,
		SO2:         loc.Pollutants.SO2,
		CO:          loc.Pollutants.CO,
		O3:          loc.Pollutants.O3,
		Temperature: loc.Temperature,
		Humidity:    loc.Humidity,
		LastUpdated: loc.LastUpdated.UTC(),
	}
	if loc.Map != nil {
		x, y := loc.Map.X, loc.Map.Y
		row.MapX, row.MapY = &x, &y
	}
	return row
}

func (r locationRow) location() aqi.Location {
	loc := aqi.Location{
		ID:   r.ID,
		Name: r.Name,
		AQI:  r.AQI,
		Pollutants: aqi.Pollutants{
			PM25: r.PM25,
			PM10: r.PM10,
			NO2:  r.NO2,
			SO2:  r.SO2,
			CO:   r.CO,
			O3:   r.O3,
		},
		Temperature: r.Temperature,
		Humidity:    r.Humidity,
		LastUpdated: r.LastUpdated,
	}
	if r.MapX != nil && r.MapY != nil {
		loc.Map = &aqi.MapPosition{X: *r.MapX, Y: *r.MapY}
	}
	return loc
}

const listLocationsSQL = `
    SELECT id, position, name, aqi, pm25, pm10, no2, so2, co, o3, temperature, humidity, map_x, map_y, last_updated
    FROM hyderaqi.locations
    ORDER BY position, id
`

// ListLocations returns all stored locations in registry order.
func (s *Store) ListLocations(ctx context.Context) ([]aqi.Location, error) {
	rows, err := s.pool.Query(ctx, listLocationsSQL)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	locations := make([]aqi.Location, 0)
	for rows.Next() {
		var r locationRow
		if err := rows.Scan(
			&r.ID,
			&r.Position,
			&r.Name,
			&r.AQI,
			&r.PM25,
			&r.PM10,
			&r.NO2,
			&r.SO2,
			&r.CO,
			&r.O3,
			&r.Temperature,
			&r.Humidity,
			&r.MapX,
			&r.MapY,
			&r.LastUpdated,
		); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locations = append(locations, r.location())
	}
	return locations, rows.Err()
}

const upsertLocationSQL = `INSERT INTO hyderaqi.locations (id, position, name, aqi, pm25, pm10, no2, so2, co, o3, temperature, humidity, map_x, map_y, last_updated, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,NOW())
ON CONFLICT (id) DO UPDATE
SET position = EXCLUDED.position,
    name = EXCLUDED.name,
    aqi = EXCLUDED.aqi,
    pm25 = EXCLUDED.pm25,
    pm10 = EXCLUDED.pm10,
    no2 = EXCLUDED.no2,
    so2 = EXCLUDED.so2,
    co = EXCLUDED.co,
    o3 = EXCLUDED.o3,
    temperature = EXCLUDED.temperature,
    humidity = EXCLUDED.humidity,
    map_x = EXCLUDED.map_x,
    map_y = EXCLUDED.map_y,
    last_updated = EXCLUDED.last_updated,
    updated_at = NOW()`

// UpsertLocations inserts or updates locations, keeping slice order as
// registry order.
func (s *Store) UpsertLocations(ctx context.Context, locations []aqi.Location) error {
	batch := upsertBatch(locations)
	if batch.Len() == 0 {
		return nil
	}

	res := s.pool.SendBatch(ctx, batch)
	defer res.Close()

	for _, loc := range locations {
		if _, err := res.Exec(); err != nil {
			return fmt.Errorf("upsert location %s: %w", loc.ID, err)
		}
	}
	return nil
}

func upsertBatch(locations []aqi.Location) *pgx.Batch {
	batch := &pgx.Batch{}
	for i, loc := range locations {
		r := rowFromLocation(i, loc)
		batch.Queue(upsertLocationSQL,
			r.ID, r.Position, r.Name, r.AQI,
			r.PM25, r.PM10, r.NO2, r.SO2, r.CO, r.O3,
			r.Temperature, r.Humidity, r.MapX, r.MapY, r.LastUpdated,
		)
	}
	return batch
}

// LoadRegistry builds the registry from stored locations. An empty table
// yields the built-in fixtures.
func (s *Store) LoadRegistry(ctx context.Context, now time.Time) (*registry.Registry, error) {
	locations, err := s.ListLocations(ctx)
	if err != nil {
		return nil, err
	}
	if len(locations) == 0 {
		return registry.Default(now), nil
	}
	return registry.New(locations), nil
}
