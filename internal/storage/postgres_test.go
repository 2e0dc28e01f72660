package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/ErikRoss/ConversionsManager/internal/domain"
	"github.com/ErikRoss/ConversionsManager/internal/storage"
)

var clickColumns = []string{
	"id", "click_id", "service_tag", "user_agent", "key", "initiator",
	"click_source", "domain", "rma", "ulb", "xcn", "fbclid", "gclid",
	"ttclid", "created_at",
}

func newMock(t *testing.T) (*storage.Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return storage.NewStore(db), mock
}

func TestInsertClick(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectQuery("INSERT INTO clicks").
		WithArgs(
			"click-1", "casino", "Mozilla/5.0", "key-1", "203.0.113.7",
			"facebook", "https://landing.example.com", "123", 42,
			int64(0), "fb-id", "", "",
		).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	id, err := store.InsertClick(context.Background(), &domain.Click{
		ClickID:     "click-1",
		ServiceTag:  "casino",
		UserAgent:   "Mozilla/5.0",
		Key:         "key-1",
		Initiator:   "203.0.113.7",
		ClickSource: domain.SourceFacebook,
		Domain:      "https://landing.example.com",
		RMA:         "123",
		ULB:         42,
		Fbclid:      "fb-id",
	})

	require.NoError(t, err)
	require.Equal(t, int64(7), id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindClickByClickID_RoundTrip(t *testing.T) {
	store, mock := newMock(t)

	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM clicks WHERE click_id").
		WithArgs("click-1").
		WillReturnRows(sqlmock.NewRows(clickColumns).AddRow(
			int64(7), "click-1", "casino", "Mozilla/5.0", "key-1",
			"203.0.113.7", "facebook", "https://landing.example.com",
			"123", 42, int64(9), "fb-id", "", "", created,
		))

	click, err := store.FindClickByClickID(context.Background(), "click-1")

	require.NoError(t, err)
	require.Equal(t, "click-1", click.ClickID)
	require.Equal(t, "fb-id", click.Fbclid)
	require.Equal(t, "", click.Gclid)
	require.Equal(t, "", click.Ttclid)
	require.Equal(t, "key-1", click.Key)
	require.Equal(t, domain.SourceFacebook, click.ClickSource)
	require.Equal(t, int64(9), click.XCN)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindClickByKey_NotFound(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectQuery("SELECT (.+) FROM clicks WHERE key").
		WithArgs("missing-key").
		WillReturnRows(sqlmock.NewRows(clickColumns))

	_, err := store.FindClickByKey(context.Background(), "missing-key")

	require.ErrorIs(t, err, storage.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertConversion(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectQuery("INSERT INTO conversions").
		WithArgs(
			"key-1", "click-1", "https://landing.example.com", "AddToCart",
			"123", 42, "fb-id", "", "", "", "", "", "203.0.113.7",
			"facebook", "https://www.facebook.com/tr/?ev=AddToCart", true,
		).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

	id, err := store.InsertConversion(context.Background(), &domain.Conversion{
		Key:              "key-1",
		ClickID:          "click-1",
		Domain:           "https://landing.example.com",
		Event:            "AddToCart",
		RMA:              "123",
		ULB:              42,
		Fbclid:           "fb-id",
		Initiator:        "203.0.113.7",
		ConversionSource: domain.SourceFacebook,
		ConversionURL:    "https://www.facebook.com/tr/?ev=AddToCart",
		IsSent:           true,
	})

	require.NoError(t, err)
	require.Equal(t, int64(3), id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListConversions(t *testing.T) {
	store, mock := newMock(t)

	columns := []string{
		"id", "key", "click_id", "domain", "event", "rma", "ulb",
		"fbclid", "gclid", "ttclid", "appclid", "clabel", "gtag",
		"initiator", "conversion_source", "conversion_url", "is_sent",
		"created_at",
	}

	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM conversions").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(2), "key-1", "click-1", "d", "AddToCart", "123",
				42, "fb-id", "", "", "", "", "", "ip", "facebook",
				"url-2", false, created).
			AddRow(int64(1), "key-1", "click-1", "d", "install", "123",
				42, "fb-id", "", "", "", "", "", "ip", "facebook",
				"url-1", true, created))

	convs, err := store.ListConversions(context.Background())

	require.NoError(t, err)
	require.Len(t, convs, 2)
	require.Equal(t, "AddToCart", convs[0].Event)
	require.False(t, convs[0].IsSent)
	require.Equal(t, "install", convs[1].Event)
	require.True(t, convs[1].IsSent)
	require.NoError(t, mock.ExpectationsWereMet())
}
