package pipeline

import (
	"context"
	"database/sql"
	"io"
	"path/filepath"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/matzehuels/hydronet/pkg/cache"
	"github.com/matzehuels/hydronet/pkg/config"
	"github.com/matzehuels/hydronet/pkg/errors"
	"github.com/matzehuels/hydronet/pkg/hydro"
	recio "github.com/matzehuels/hydronet/pkg/io"
	"github.com/matzehuels/hydronet/pkg/observability"
)

var basinSQL = []string{
	`CREATE TABLE barriers (BID INTEGER, BID_DS INTEGER, RID INTEGER, F_PROP REAL, NATION TEXT,
		COST REAL, PASS04 REAL, PASS07 REAL, PASS10 REAL)`,
	`CREATE TABLE RSX (BID INTEGER, "DROP" REAL, BANKFULL REAL)`,
	`CREATE TABLE dams_flowlines (BID INTEGER, HEIGHT REAL)`,
	`CREATE TABLE flowlines (RID INTEGER, RID_DS INTEGER, TID INTEGER, HydroID INTEGER,
		Shape_Length REAL, STRAHLER INTEGER)`,
	`CREATE TABLE catchments (HydroID INTEGER, HydroID_DS INTEGER, WSAKM2 REAL)`,
	`CREATE TABLE tributaries (TID INTEGER, LAKE TEXT)`,
	`INSERT INTO barriers VALUES (1, -1, 11, 0.4, 'CAN', NULL, 0.5, 0.5, 0.5)`,
	`INSERT INTO dams_flowlines VALUES (1, 3.0)`,
	`INSERT INTO flowlines VALUES (10, 11, 7, 100, 1.25, 1), (11, -1, 7, 100, 0.75, 1)`,
	`INSERT INTO catchments VALUES (100, -1, 5.0)`,
	`INSERT INTO tributaries VALUES (7, 'Huron')`,
}

func createBasinDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "basin.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	for _, stmt := range basinSQL {
		_, err := db.Exec(stmt)
		require.NoError(t, err, stmt)
	}
	return path
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatRecords, DetectFormat("records.json"))
	assert.Equal(t, FormatRecords, DetectFormat("/tmp/RECORDS.JSON"))
	assert.Equal(t, FormatSQLite, DetectFormat("basin.db"))
	assert.Equal(t, FormatSQLite, DetectFormat("basin.sqlite"))
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{Input: "basin.db"}
	require.NoError(t, opts.ValidateAndSetDefaults())
	assert.Equal(t, FormatSQLite, opts.Format)
	require.NotNil(t, opts.Config)
	assert.Equal(t, int64(-1), opts.Config.Source.Sentinel)

	err := (&Options{}).ValidateAndSetDefaults()
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "got %v", err)

	err = (&Options{Input: "x", Format: "csv"}).ValidateAndSetDefaults()
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "got %v", err)

	bad := config.Default()
	bad.Source.Tables.Dams = ""
	err = (&Options{Input: "x", Config: bad}).ValidateAndSetDefaults()
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), "got %v", err)
}

func TestExecuteSQLite(t *testing.T) {
	path := createBasinDB(t)
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	r := NewRunner(fc, nil, quietLogger())
	defer r.Close()

	ctx := context.Background()
	first, err := r.Execute(ctx, Options{Input: path})
	require.NoError(t, err)
	assert.False(t, first.CacheHit)
	assert.Equal(t, 5, first.Stats.Rows)
	assert.Equal(t, hydro.Stats{Lakes: 1, Tributaries: 1, Catchments: 1, Reaches: 2, Structures: 1}, first.Stats.Network)

	lake, ok := first.Network.Lake("Huron")
	require.True(t, ok)
	assert.InDelta(t, 2.0, lake.LengthAll(), 1e-9)

	second, err := r.Execute(ctx, Options{Input: path})
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.Stats.Network, second.Stats.Network)
	dam, ok := second.Network.Structure("1")
	require.True(t, ok)
	assert.Equal(t, hydro.KindDam, dam.Kind())

	refreshed, err := r.Execute(ctx, Options{Input: path, Refresh: true})
	require.NoError(t, err)
	assert.False(t, refreshed.CacheHit)
}

func TestCacheKeyFollowsConfig(t *testing.T) {
	path := createBasinDB(t)
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	r := NewRunner(fc, nil, quietLogger())

	ctx := context.Background()
	_, hit, err := r.LoadWithCacheInfo(ctx, Options{Input: path})
	require.NoError(t, err)
	require.False(t, hit)

	cfg := config.Default()
	cfg.Source.Fields.Passability = map[string]string{"04": "PASS04"}
	set, hit, err := r.LoadWithCacheInfo(ctx, Options{Input: path, Config: cfg})
	require.NoError(t, err)
	assert.False(t, hit, "a different source configuration misses")
	assert.Equal(t, []string{"pass_04"}, set.Barriers.FieldsWithPrefix("pass_"))
}

func TestExecuteRecords(t *testing.T) {
	path := createBasinDB(t)
	r := NewRunner(nil, nil, quietLogger())

	set, err := r.Load(context.Background(), Options{Input: path})
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "records.json")
	require.NoError(t, recio.ExportJSON(set, out))

	res, err := r.Execute(context.Background(), Options{Input: out})
	require.NoError(t, err)
	assert.False(t, res.CacheHit)
	reach, ok := res.Network.Reach("10")
	require.True(t, ok)
	assert.Equal(t, "11", reach.DownReach().ID())
}

func TestExecuteStages(t *testing.T) {
	path := createBasinDB(t)
	r := NewRunner(nil, nil, quietLogger())

	var stages []string
	_, err := r.Execute(context.Background(), Options{
		Input:   path,
		OnStage: func(s string) { stages = append(stages, s) },
	})
	require.NoError(t, err)
	assert.Equal(t, []string{StageLoad, StageBuild}, stages)
}

func TestExecuteErrors(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	ctx := context.Background()

	_, err := r.Execute(ctx, Options{Input: filepath.Join(t.TempDir(), "missing.db")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound), "got %v", err)

	_, err = r.Execute(ctx, Options{Input: filepath.Join(t.TempDir(), "missing.json")})
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound), "got %v", err)

	_, err = r.Execute(ctx, Options{})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "got %v", err)
}

type countingCacheHooks struct {
	mu                 sync.Mutex
	hits, misses, sets int
}

func (h *countingCacheHooks) OnCacheHit(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hits++
}

func (h *countingCacheHooks) OnCacheMiss(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.misses++
}

func (h *countingCacheHooks) OnCacheSet(context.Context, string, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sets++
}

func TestCacheHooks(t *testing.T) {
	h := &countingCacheHooks{}
	observability.SetCacheHooks(h)
	t.Cleanup(observability.Reset)

	path := createBasinDB(t)
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	r := NewRunner(fc, cache.NewScopedKeyer(nil, "v1:"), quietLogger())

	for range 2 {
		_, err := r.Load(context.Background(), Options{Input: path})
		require.NoError(t, err)
	}
	assert.Equal(t, 1, h.hits)
	assert.Equal(t, 1, h.misses)
	assert.Equal(t, 1, h.sets)
}
