package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/cms/internal/auth/domain"
)

type activityRepo struct {
	q querier
}

func (r *activityRepo) CreateEntry(ctx context.Context, e domain.ActivityEntry) error {
	metadata, err := encodeMetadata(e.Metadata)
	if err != nil {
		return err
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	_, err = r.q.ExecContext(ctx,
		`INSERT INTO activity_logs
		 (id, user_id, action, entity, entity_id, actor_name, ip_address, user_agent, metadata, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		e.ID,
		mapOptionalInt64(e.UserID),
		string(e.Action),
		e.Entity,
		mapOptionalInt64(e.EntityID),
		e.ActorName,
		e.IPAddress,
		e.UserAgent,
		string(metadata),
		e.CreatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *activityRepo) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.ActivityEntry, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, user_id, action, entity, entity_id, actor_name, ip_address, user_agent, metadata, created_at
		 FROM activity_logs
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ActivityEntry
	for rows.Next() {
		var (
			e        domain.ActivityEntry
			action   string
			owner    sql.NullInt64
			entityID sql.NullInt64
			metadata []byte
		)
		if err := rows.Scan(
			&e.ID,
			&owner,
			&action,
			&e.Entity,
			&entityID,
			&e.ActorName,
			&e.IPAddress,
			&e.UserAgent,
			&metadata,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		e.UserID = mapNullInt64Ptr(owner)
		e.EntityID = mapNullInt64Ptr(entityID)
		e.Action = domain.Action(action)
		e.Metadata = decodeMetadata(metadata)
		e.CreatedAt = e.CreatedAt.UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *activityRepo) DeleteBefore(ctx context.Context, t time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM activity_logs WHERE created_at < $1`, t.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
