package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/memorylane/lane-server/internal/model"
	"github.com/memorylane/lane-server/internal/store"
)

// New opens (or creates) a SQLite database file, ensures the schema and
// returns a store over it.
func New(path string) (store.Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		// a pooled second connection would see a different empty database
		db.SetMaxOpenConns(1)
	}
	if err := EnsureSchema(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewWithDB(db), nil
}

// NewWithDB wraps an existing connection. The caller owns the schema.
func NewWithDB(db *sql.DB) store.Store { return &sqliteStore{db: db} }

type sqliteStore struct{ db *sql.DB }

func (s *sqliteStore) Lanes() store.Lanes       { return &lanes{db: s.db} }
func (s *sqliteStore) Memories() store.Memories { return &memories{db: s.db} }
func (s *sqliteStore) Images() store.Images     { return &images{db: s.db} }

// Ping implements health checks for the SQLite-backed store.
func (s *sqliteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func mapNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}
	return err
}

// --- Lanes ---

type lanes struct{ db *sql.DB }

func (l *lanes) Create(ctx context.Context, lane *model.Lane) (*model.Lane, error) {
	id := lane.LaneID
	if id == "" {
		id = uuid.New().String()
	}
	out := *lane
	out.LaneID = id
	out.CreationTime = time.Now().UTC()
	if _, err := l.db.ExecContext(ctx, `
        INSERT INTO lanes (lane_id, title, description, is_public, creation_time)
        VALUES (?,?,?,?,?)
    `, id, lane.Title, lane.Description, lane.IsPublic, out.CreationTime); err != nil {
		return nil, err
	}
	return &out, nil
}

func (l *lanes) Get(ctx context.Context, laneID string, includePrivate bool) (*model.Lane, error) {
	q := `SELECT lane_id, title, description, is_public, creation_time FROM lanes WHERE lane_id=?`
	if !includePrivate {
		q += ` AND is_public=1`
	}
	var out model.Lane
	row := l.db.QueryRowContext(ctx, q, laneID)
	if err := row.Scan(&out.LaneID, &out.Title, &out.Description, &out.IsPublic, &out.CreationTime); err != nil {
		return nil, mapNoRows(err)
	}
	return &out, nil
}

func (l *lanes) GetDetail(ctx context.Context, laneID string, includePrivate bool) (*model.LaneDetail, error) {
	lane, err := l.Get(ctx, laneID, includePrivate)
	if err != nil {
		return nil, err
	}
	detail := &model.LaneDetail{Lane: *lane, Memories: []*model.MemoryWithImages{}}

	memRows, err := l.db.QueryContext(ctx, `
        SELECT memory_id, title, description, ts
        FROM memories WHERE lane_id=? ORDER BY ts DESC
    `, laneID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = memRows.Close() }()

	byID := map[string]*model.MemoryWithImages{}
	for memRows.Next() {
		var m model.MemoryWithImages
		m.LaneID = laneID
		if err := memRows.Scan(&m.MemoryID, &m.Title, &m.Description, &m.Timestamp); err != nil {
			return nil, err
		}
		m.Images = []*model.Image{}
		byID[m.MemoryID] = &m
		detail.Memories = append(detail.Memories, &m)
	}
	if err := memRows.Err(); err != nil {
		return nil, err
	}

	imgRows, err := l.db.QueryContext(ctx, `
        SELECT i.image_id, i.memory_id, i.blob_url, i.blob_path, i.ord
        FROM memory_images i
        JOIN memories m ON m.memory_id = i.memory_id
        WHERE m.lane_id=?
        ORDER BY i.ord ASC
    `, laneID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = imgRows.Close() }()
	for imgRows.Next() {
		var img model.Image
		if err := imgRows.Scan(&img.ImageID, &img.MemoryID, &img.BlobURL, &img.BlobPath, &img.Order); err != nil {
			return nil, err
		}
		if m, ok := byID[img.MemoryID]; ok {
			m.Images = append(m.Images, &img)
		}
	}
	return detail, imgRows.Err()
}

func (l *lanes) List(ctx context.Context, includePrivate bool) ([]*model.Lane, error) {
	q := `SELECT lane_id, title, description, is_public, creation_time FROM lanes`
	if !includePrivate {
		q += ` WHERE is_public=1`
	}
	q += ` ORDER BY creation_time DESC`
	rows, err := l.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Lane
	for rows.Next() {
		var lane model.Lane
		if err := rows.Scan(&lane.LaneID, &lane.Title, &lane.Description, &lane.IsPublic, &lane.CreationTime); err != nil {
			return nil, err
		}
		out = append(out, &lane)
	}
	return out, rows.Err()
}

func (l *lanes) Delete(ctx context.Context, laneID string) ([]string, error) {
	tx, err := l.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM lanes WHERE lane_id=?`, laneID).Scan(&exists); err != nil {
		return nil, mapNoRows(err)
	}

	paths, err := collectPaths(ctx, tx, `
        SELECT i.blob_path
        FROM memory_images i
        JOIN memories m ON m.memory_id = i.memory_id
        WHERE m.lane_id=?
    `, laneID)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `
        DELETE FROM memory_images WHERE memory_id IN (SELECT memory_id FROM memories WHERE lane_id=?)
    `, laneID); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM memories WHERE lane_id=?`, laneID); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM lanes WHERE lane_id=?`, laneID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return paths, nil
}

// --- Memories ---

type memories struct{ db *sql.DB }

func (m *memories) Create(ctx context.Context, mm *model.Memory, imgs []*model.Image) (*model.MemoryWithImages, error) {
	tx, err := m.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM lanes WHERE lane_id=?`, mm.LaneID).Scan(&exists); err != nil {
		return nil, mapNoRows(err)
	}

	memID := uuid.New().String()
	if _, err := tx.ExecContext(ctx, `
        INSERT INTO memories (memory_id, lane_id, title, description, ts)
        VALUES (?,?,?,?,?)
    `, memID, mm.LaneID, mm.Title, mm.Description, mm.Timestamp); err != nil {
		return nil, err
	}

	out := &model.MemoryWithImages{Memory: *mm, Images: make([]*model.Image, 0, len(imgs))}
	out.MemoryID = memID
	for _, img := range imgs {
		created := *img
		created.ImageID = uuid.New().String()
		created.MemoryID = memID
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO memory_images (image_id, memory_id, blob_url, blob_path, ord)
            VALUES (?,?,?,?,?)
        `, created.ImageID, memID, created.BlobURL, created.BlobPath, created.Order); err != nil {
			return nil, err
		}
		out.Images = append(out.Images, &created)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *memories) Get(ctx context.Context, memoryID string) (*model.Memory, error) {
	var out model.Memory
	row := m.db.QueryRowContext(ctx, `
        SELECT memory_id, lane_id, title, description, ts
        FROM memories WHERE memory_id=?
    `, memoryID)
	if err := row.Scan(&out.MemoryID, &out.LaneID, &out.Title, &out.Description, &out.Timestamp); err != nil {
		return nil, mapNoRows(err)
	}
	return &out, nil
}

func (m *memories) Update(ctx context.Context, memoryID string, upd model.MemoryUpdate) (*model.Memory, error) {
	res, err := m.db.ExecContext(ctx, `
        UPDATE memories SET
            title       = COALESCE(?, title),
            description = COALESCE(?, description),
            ts          = COALESCE(?, ts)
        WHERE memory_id=?
    `, upd.Title, upd.Description, upd.Timestamp, memoryID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.ErrNotFound
	}
	return m.Get(ctx, memoryID)
}

func (m *memories) Delete(ctx context.Context, memoryID string) ([]string, error) {
	tx, err := m.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM memories WHERE memory_id=?`, memoryID).Scan(&exists); err != nil {
		return nil, mapNoRows(err)
	}

	paths, err := collectPaths(ctx, tx, `SELECT blob_path FROM memory_images WHERE memory_id=?`, memoryID)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM memory_images WHERE memory_id=?`, memoryID); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM memories WHERE memory_id=?`, memoryID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return paths, nil
}

// --- Images ---

type images struct{ db *sql.DB }

func (i *images) Create(ctx context.Context, img *model.Image) (*model.Image, error) {
	var exists int
	if err := i.db.QueryRowContext(ctx, `SELECT 1 FROM memories WHERE memory_id=?`, img.MemoryID).Scan(&exists); err != nil {
		return nil, mapNoRows(err)
	}
	out := *img
	out.ImageID = uuid.New().String()
	if _, err := i.db.ExecContext(ctx, `
        INSERT INTO memory_images (image_id, memory_id, blob_url, blob_path, ord)
        VALUES (?,?,?,?,?)
    `, out.ImageID, out.MemoryID, out.BlobURL, out.BlobPath, out.Order); err != nil {
		return nil, err
	}
	return &out, nil
}

func (i *images) Get(ctx context.Context, imageID string) (*model.Image, error) {
	var out model.Image
	row := i.db.QueryRowContext(ctx, `
        SELECT image_id, memory_id, blob_url, blob_path, ord
        FROM memory_images WHERE image_id=?
    `, imageID)
	if err := row.Scan(&out.ImageID, &out.MemoryID, &out.BlobURL, &out.BlobPath, &out.Order); err != nil {
		return nil, mapNoRows(err)
	}
	return &out, nil
}

func (i *images) Delete(ctx context.Context, imageID string) (string, error) {
	tx, err := i.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	var path string
	if err := tx.QueryRowContext(ctx, `SELECT blob_path FROM memory_images WHERE image_id=?`, imageID).Scan(&path); err != nil {
		return "", mapNoRows(err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM memory_images WHERE image_id=?`, imageID); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return path, nil
}

func collectPaths(ctx context.Context, tx *sql.Tx, query string, args ...interface{}) ([]string, error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}
