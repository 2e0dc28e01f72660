// Package storage persists clicks and conversions in PostgreSQL and
// resolves clicks by identifier for attribution.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ErikRoss/ConversionsManager/internal/domain"
)

// ErrNotFound is returned when no record matches the given identifier.
var ErrNotFound = errors.New("record not found")

// queryTimeout bounds every storage operation.
const queryTimeout = 5 * time.Second

// AttributionStore is the persistence boundary of the attribution
// engine. Concurrent writes for the same click key are serialized by
// the database; the engine itself holds no locks.
type AttributionStore interface {
	InsertClick(ctx context.Context, click *domain.Click) (int64, error)
	FindClickByClickID(ctx context.Context, clickID string) (*domain.Click, error)
	FindClickByKey(ctx context.Context, key string) (*domain.Click, error)
	InsertConversion(ctx context.Context, conv *domain.Conversion) (int64, error)
	ListClicks(ctx context.Context) ([]domain.Click, error)
	ListConversions(ctx context.Context) ([]domain.Conversion, error)
}

// Store is the PostgreSQL implementation of AttributionStore.
type Store struct {
	db *sql.DB
}

// NewStore creates a Store backed by the given database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const insertClickQuery = `
	INSERT INTO clicks (
		click_id, service_tag, user_agent, key, initiator, click_source,
		domain, rma, ulb, xcn, fbclid, gclid, ttclid
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	RETURNING id`

// InsertClick persists a click record and returns its id.
func (s *Store) InsertClick(ctx context.Context, click *domain.Click) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var id int64
	err := s.db.QueryRowContext(ctx, insertClickQuery,
		click.ClickID, click.ServiceTag, click.UserAgent, click.Key,
		click.Initiator, string(click.ClickSource), click.Domain,
		click.RMA, click.ULB, click.XCN, click.Fbclid, click.Gclid,
		click.Ttclid,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert click: %w", err)
	}

	return id, nil
}

const selectClickColumns = `
	SELECT id, click_id, service_tag, user_agent, key, initiator,
		click_source, domain, rma, ulb, xcn, fbclid, gclid, ttclid,
		created_at
	FROM clicks`

// FindClickByClickID resolves the most recent click with the given
// caller-supplied identifier.
func (s *Store) FindClickByClickID(ctx context.Context, clickID string) (*domain.Click, error) {
	return s.findClick(ctx, selectClickColumns+` WHERE click_id = $1 ORDER BY created_at DESC LIMIT 1`, clickID)
}

// FindClickByKey resolves the most recent click with the given dedup key.
func (s *Store) FindClickByKey(ctx context.Context, key string) (*domain.Click, error) {
	return s.findClick(ctx, selectClickColumns+` WHERE key = $1 ORDER BY created_at DESC LIMIT 1`, key)
}

func (s *Store) findClick(ctx context.Context, query, arg string) (*domain.Click, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	click, err := scanClick(s.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find click: %w", err)
	}

	return click, nil
}

// ListClicks returns all stored clicks, newest first.
func (s *Store) ListClicks(ctx context.Context) ([]domain.Click, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, selectClickColumns+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list clicks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	clicks := []domain.Click{}
	for rows.Next() {
		click, scanErr := scanClick(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan click: %w", scanErr)
		}
		clicks = append(clicks, *click)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clicks: %w", err)
	}

	return clicks, nil
}

const insertConversionQuery = `
	INSERT INTO conversions (
		key, click_id, domain, event, rma, ulb, fbclid, gclid, ttclid,
		appclid, clabel, gtag, initiator, conversion_source,
		conversion_url, is_sent
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
		$14, $15, $16)
	RETURNING id`

// InsertConversion persists a conversion record and returns its id.
func (s *Store) InsertConversion(ctx context.Context, conv *domain.Conversion) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var id int64
	err := s.db.QueryRowContext(ctx, insertConversionQuery,
		conv.Key, conv.ClickID, conv.Domain, conv.Event, conv.RMA,
		conv.ULB, conv.Fbclid, conv.Gclid, conv.Ttclid, conv.Appclid,
		conv.Clabel, conv.Gtag, conv.Initiator,
		string(conv.ConversionSource), conv.ConversionURL, conv.IsSent,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert conversion: %w", err)
	}

	return id, nil
}

const selectConversionColumns = `
	SELECT id, key, click_id, domain, event, rma, ulb, fbclid, gclid,
		ttclid, appclid, clabel, gtag, initiator, conversion_source,
		conversion_url, is_sent, created_at
	FROM conversions`

// ListConversions returns all stored conversions, newest first.
func (s *Store) ListConversions(ctx context.Context) ([]domain.Conversion, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, selectConversionColumns+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list conversions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	convs := []domain.Conversion{}
	for rows.Next() {
		conv, scanErr := scanConversion(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan conversion: %w", scanErr)
		}
		convs = append(convs, *conv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversions: %w", err)
	}

	return convs, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanClick(row rowScanner) (*domain.Click, error) {
	var (
		click     domain.Click
		source    string
		createdAt time.Time
	)

	err := row.Scan(
		&click.ID, &click.ClickID, &click.ServiceTag, &click.UserAgent,
		&click.Key, &click.Initiator, &source, &click.Domain,
		&click.RMA, &click.ULB, &click.XCN, &click.Fbclid,
		&click.Gclid, &click.Ttclid, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	click.ClickSource = domain.ClickSource(source)
	click.CreatedAt = domain.Time{Time: createdAt}
	return &click, nil
}

func scanConversion(row rowScanner) (*domain.Conversion, error) {
	var (
		conv      domain.Conversion
		source    string
		createdAt time.Time
	)

	err := row.Scan(
		&conv.ID, &conv.Key, &conv.ClickID, &conv.Domain, &conv.Event,
		&conv.RMA, &conv.ULB, &conv.Fbclid, &conv.Gclid, &conv.Ttclid,
		&conv.Appclid, &conv.Clabel, &conv.Gtag, &conv.Initiator,
		&source, &conv.ConversionURL, &conv.IsSent, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	conv.ConversionSource = domain.ClickSource(source)
	conv.CreatedAt = domain.Time{Time: createdAt}
	return &conv, nil
}
