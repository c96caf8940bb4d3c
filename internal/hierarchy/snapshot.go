package hierarchy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/FranciscoCarneiro11/EduScrum-Awards/pkg/sdk"
)

// The snapshot store persists the index to a local sqlite file so the
// ownership chains survive process restarts: authorization and guard
// checks work immediately after startup without refetching the world.

type entityRow struct {
	bun.BaseModel `bun:"table:entities"`

	Kind       string `bun:"kind,pk"`
	ID         int64  `bun:"id,pk"`
	ParentKind string `bun:"parent_kind"`
	ParentID   int64  `bun:"parent_id"`
}

type enrollmentRow struct {
	bun.BaseModel `bun:"table:enrollments"`

	UserID   int64  `bun:"user_id,pk"`
	CourseID int64  `bun:"course_id,notnull"`
	Role     string `bun:"role,notnull"`
}

type metaRow struct {
	bun.BaseModel `bun:"table:meta"`

	Key   string `bun:"key,pk"`
	Value uint64 `bun:"value,notnull"`
}

const metaSeqKey = "seq"

// OpenSnapshotDB opens (or creates) the local snapshot database.
// Single writer, WAL mode, foreign keys on.
func OpenSnapshotDB(ctx context.Context, path string) (*bun.DB, error) {
	sqldb, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot database: %w", err)
	}
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	for _, pragma := range []string{"PRAGMA foreign_keys = ON", "PRAGMA journal_mode = WAL"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			sqldb.Close()
			return nil, fmt.Errorf("configure snapshot database: %w", err)
		}
	}

	models := []any{(*entityRow)(nil), (*enrollmentRow)(nil), (*metaRow)(nil)}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			sqldb.Close()
			return nil, fmt.Errorf("create snapshot tables: %w", err)
		}
	}
	return db, nil
}

// SaveSnapshot replaces the stored snapshot with the index's current
// contents in a single transaction.
func SaveSnapshot(ctx context.Context, db *bun.DB, idx *Index) error {
	entities, enrollments, seq := idx.Snapshot()

	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, model := range []any{(*entityRow)(nil), (*enrollmentRow)(nil), (*metaRow)(nil)} {
			if _, err := tx.NewDelete().Model(model).Where("1=1").Exec(ctx); err != nil {
				return fmt.Errorf("clear snapshot: %w", err)
			}
		}

		if len(entities) > 0 {
			rows := make([]entityRow, 0, len(entities))
			for _, e := range entities {
				rows = append(rows, entityRow{
					Kind:       string(e.Ref.Kind),
					ID:         e.Ref.ID,
					ParentKind: string(e.Parent.Kind),
					ParentID:   e.Parent.ID,
				})
			}
			if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
				return fmt.Errorf("write entities: %w", err)
			}
		}

		if len(enrollments) > 0 {
			rows := make([]enrollmentRow, 0, len(enrollments))
			for _, e := range enrollments {
				rows = append(rows, enrollmentRow{
					UserID:   e.UserID,
					CourseID: e.CourseID,
					Role:     string(e.Role),
				})
			}
			if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
				return fmt.Errorf("write enrollments: %w", err)
			}
		}

		meta := metaRow{Key: metaSeqKey, Value: seq}
		if _, err := tx.NewInsert().Model(&meta).Exec(ctx); err != nil {
			return fmt.Errorf("write sequence high-water mark: %w", err)
		}
		return nil
	})
}

// LoadSnapshot restores the index from the stored snapshot. An empty
// database restores an empty index.
func LoadSnapshot(ctx context.Context, db *bun.DB, idx *Index) error {
	var entityRows []entityRow
	if err := db.NewSelect().Model(&entityRows).Scan(ctx); err != nil {
		return fmt.Errorf("read entities: %w", err)
	}

	var enrollmentRows []enrollmentRow
	if err := db.NewSelect().Model(&enrollmentRows).Scan(ctx); err != nil {
		return fmt.Errorf("read enrollments: %w", err)
	}

	var meta metaRow
	seq := uint64(0)
	err := db.NewSelect().Model(&meta).Where("key = ?", metaSeqKey).Scan(ctx)
	switch {
	case err == nil:
		seq = meta.Value
	case errors.Is(err, sql.ErrNoRows):
		// fresh database
	default:
		return fmt.Errorf("read sequence high-water mark: %w", err)
	}

	entities := make([]Entity, 0, len(entityRows))
	for _, r := range entityRows {
		e := Entity{Ref: Ref{Kind: Kind(r.Kind), ID: r.ID}}
		if r.ParentKind != "" {
			e.Parent = Ref{Kind: Kind(r.ParentKind), ID: r.ParentID}
		}
		entities = append(entities, e)
	}

	enrollments := make([]Enrollment, 0, len(enrollmentRows))
	for _, r := range enrollmentRows {
		enrollments = append(enrollments, Enrollment{
			UserID:   r.UserID,
			CourseID: r.CourseID,
			Role:     sdk.Role(r.Role),
		})
	}

	idx.Restore(entities, enrollments, seq)
	return nil
}
