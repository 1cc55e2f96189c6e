package repository

import (
	"context"
	"errors"
	"time"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/vincentyono/icp-smart-contract/internal/common/db"
	"github.com/vincentyono/icp-smart-contract/internal/common/logger"
	"github.com/vincentyono/icp-smart-contract/internal/content/domain"
)

const contentColumns = `id, user_id, content, likes, dislikes, comments, created_ns, version`

type PgRepository struct {
	pool *pgxpool.Pool
	tx   *db.TxManager
	log  *logger.Logger
}

func NewPgRepository(pool *pgxpool.Pool, log *logger.Logger) *PgRepository {
	return &PgRepository{
		pool: pool,
		tx:   db.NewTxManager(pool),
		log:  log,
	}
}

func (r *PgRepository) Create(ctx context.Context, content domain.Content) error {
	start := time.Now()
	comments := content.Comments
	if comments == nil {
		comments = []string{}
	}
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO contents (`+contentColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		string(content.ID),
		string(content.UserID),
		content.Text,
		int64(content.Like),
		int64(content.Dislike),
		comments,
		int64(content.Timestamp),
		int64(content.Version),
	)
	return db.HandleExecError(err, "create content", start)
}

func (r *PgRepository) FindByID(ctx context.Context, id domain.ID) (domain.Content, error) {
	var content domain.Content
	err := db.RetryWithBackoff(ctx, r.log, db.DefaultRetryConfig, func() error {
		start := time.Now()
		var err error
		content, err = scanContent(r.pool.QueryRow(ctx, `SELECT `+contentColumns+` FROM contents WHERE id = $1`, string(id)))
		return db.HandleQueryError(err, ErrContentNotFound, "find content by id", start)
	})
	if err != nil {
		return domain.Content{}, err
	}
	return content, nil
}

func (r *PgRepository) List(ctx context.Context) ([]domain.Content, error) {
	var out []domain.Content
	err := db.RetryWithBackoff(ctx, r.log, db.DefaultRetryConfig, func() error {
		start := time.Now()
		var err error
		out, err = r.list(ctx)
		return db.HandleQueryError(err, nil, "list contents", start)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PgRepository) list(ctx context.Context) ([]domain.Content, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+contentColumns+` FROM contents ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Content, 0)
	for rows.Next() {
		content, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, content)
	}
	return out, rows.Err()
}

func (r *PgRepository) ApplyLike(ctx context.Context, id domain.ID) (domain.Content, error) {
	return r.mutate(ctx, id, "apply content like", domain.Like)
}

func (r *PgRepository) ApplyDislike(ctx context.Context, id domain.ID) (domain.Content, error) {
	return r.mutate(ctx, id, "apply content dislike", domain.Dislike)
}

func (r *PgRepository) AppendComment(ctx context.Context, id domain.ID, text string) (domain.Content, error) {
	return r.mutate(ctx, id, "append content comment", domain.AppendComment(text))
}

// mutate locks the row with SELECT ... FOR UPDATE and writes the full record back.
func (r *PgRepository) mutate(ctx context.Context, id domain.ID, operation string, apply domain.Mutation) (domain.Content, error) {
	var updated domain.Content
	err := db.RetryWithBackoff(ctx, r.log, db.DefaultRetryConfig, func() error {
		start := time.Now()
		err := r.tx.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
			current, err := scanContent(tx.QueryRow(ctx, `SELECT `+contentColumns+` FROM contents WHERE id = $1 FOR UPDATE`, string(id)))
			if err != nil {
				return err
			}

			next := current.Clone()
			apply(&next)
			next.Version = current.Version + 1

			tag, err := tx.Exec(
				ctx,
				`UPDATE contents SET likes = $2, dislikes = $3, comments = $4, version = $5 WHERE id = $1`,
				string(id),
				int64(next.Like),
				int64(next.Dislike),
				next.Comments,
				int64(next.Version),
			)
			if err != nil {
				return err
			}
			if tag.RowsAffected() != 1 {
				return errors.New("content row vanished during update")
			}

			updated = next
			return nil
		})
		return db.HandleQueryError(err, ErrContentNotFound, operation, start)
	})
	if err != nil {
		return domain.Content{}, err
	}
	return updated, nil
}

func scanContent(row pgx.Row) (domain.Content, error) {
	var (
		content                      domain.Content
		likes, dislikes, ns, version int64
		comments                     []string
	)
	if err := row.Scan(&content.ID, &content.UserID, &content.Text, &likes, &dislikes, &comments, &ns, &version); err != nil {
		return domain.Content{}, err
	}

	content.Like = uint32(likes)
	content.Dislike = uint32(dislikes)
	content.Timestamp = uint64(ns)
	content.Version = uint64(version)
	content.Comments = comments
	if content.Comments == nil {
		content.Comments = []string{}
	}
	return content, nil
}
