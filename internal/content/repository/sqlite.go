package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vincentyono/icp-smart-contract/internal/common/db"
	"github.com/vincentyono/icp-smart-contract/internal/content/domain"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(conn *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: conn}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteRepository) Create(ctx context.Context, content domain.Content) error {
	start := time.Now()
	comments, err := encodeComments(content.Comments)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(
		ctx,
		`INSERT INTO contents (`+contentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
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

func (r *SQLiteRepository) FindByID(ctx context.Context, id domain.ID) (domain.Content, error) {
	start := time.Now()
	content, err := scanSQLiteContent(r.db.QueryRowContext(ctx, `SELECT `+contentColumns+` FROM contents WHERE id = ?`, string(id)))
	if err := db.HandleQueryError(err, ErrContentNotFound, "find content by id", start); err != nil {
		return domain.Content{}, err
	}
	return content, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]domain.Content, error) {
	start := time.Now()
	out, err := r.list(ctx)
	if err := db.HandleQueryError(err, nil, "list contents", start); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SQLiteRepository) list(ctx context.Context) ([]domain.Content, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+contentColumns+` FROM contents ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Content, 0)
	for rows.Next() {
		content, err := scanSQLiteContent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, content)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) ApplyLike(ctx context.Context, id domain.ID) (domain.Content, error) {
	return r.mutate(ctx, id, "apply content like", domain.Like)
}

func (r *SQLiteRepository) ApplyDislike(ctx context.Context, id domain.ID) (domain.Content, error) {
	return r.mutate(ctx, id, "apply content dislike", domain.Dislike)
}

func (r *SQLiteRepository) AppendComment(ctx context.Context, id domain.ID, text string) (domain.Content, error) {
	return r.mutate(ctx, id, "append content comment", domain.AppendComment(text))
}

// mutate runs inside an immediate transaction, which takes the database write
// lock before the read.
func (r *SQLiteRepository) mutate(ctx context.Context, id domain.ID, operation string, apply domain.Mutation) (domain.Content, error) {
	start := time.Now()
	updated, err := r.mutateTx(ctx, id, apply)
	if err := db.HandleQueryError(err, ErrContentNotFound, operation, start); err != nil {
		return domain.Content{}, err
	}
	return updated, nil
}

func (r *SQLiteRepository) mutateTx(ctx context.Context, id domain.ID, apply domain.Mutation) (updated domain.Content, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Content{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	current, err := scanSQLiteContent(tx.QueryRowContext(ctx, `SELECT `+contentColumns+` FROM contents WHERE id = ?`, string(id)))
	if err != nil {
		return domain.Content{}, err
	}

	next := current.Clone()
	apply(&next)
	next.Version = current.Version + 1

	comments, err := encodeComments(next.Comments)
	if err != nil {
		return domain.Content{}, err
	}

	_, err = tx.ExecContext(
		ctx,
		`UPDATE contents SET likes = ?, dislikes = ?, comments = ?, version = ? WHERE id = ?`,
		int64(next.Like),
		int64(next.Dislike),
		comments,
		int64(next.Version),
		string(id),
	)
	if err != nil {
		return domain.Content{}, err
	}
	return next, nil
}

func scanSQLiteContent(row rowScanner) (domain.Content, error) {
	var (
		content                      domain.Content
		likes, dislikes, ns, version int64
		comments                     string
	)
	if err := row.Scan(&content.ID, &content.UserID, &content.Text, &likes, &dislikes, &comments, &ns, &version); err != nil {
		return domain.Content{}, err
	}

	content.Like = uint32(likes)
	content.Dislike = uint32(dislikes)
	content.Timestamp = uint64(ns)
	content.Version = uint64(version)

	if err := json.Unmarshal([]byte(comments), &content.Comments); err != nil {
		return domain.Content{}, fmt.Errorf("decode comments of %s: %w", content.ID, err)
	}
	if content.Comments == nil {
		content.Comments = []string{}
	}
	return content, nil
}

func encodeComments(comments []string) (string, error) {
	if comments == nil {
		comments = []string{}
	}
	raw, err := json.Marshal(comments)
	if err != nil {
		return "", fmt.Errorf("encode comments: %w", err)
	}
	return string(raw), nil
}
