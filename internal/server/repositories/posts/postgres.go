package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophfeed/internal/common"
	"github.com/dmitrijs2005/gophfeed/internal/dbx"
	"github.com/dmitrijs2005/gophfeed/internal/server/models"
)

type PostgresRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db, now: time.Now}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(s rowScanner) (*models.Post, error) {
	p := &models.Post{}
	err := s.Scan(&p.ID, &p.Title, &p.Content, &p.Image.URL, &p.Image.Key, &p.CreatorID, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *PostgresRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("id error: %w", err)
	}
	now := r.now().UTC()

	query :=
		`INSERT INTO posts (id, title, content, image_url, image_key, creator_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 `

	_, err = r.db.ExecContext(ctx, query,
		id.String(), post.Title, post.Content, post.Image.URL, post.Image.Key, post.CreatorID, now, now)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	post.ID = id.String()
	post.CreatedAt, post.UpdatedAt = now, now
	return post, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}

	query :=
		`SELECT id, title, content, image_url, image_key, creator_id, created_at, updated_at FROM posts
		 WHERE id = $1
		 `

	p, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Update(ctx context.Context, post *models.Post) error {
	if _, err := uuid.Parse(post.ID); err != nil {
		return common.ErrorNotFound
	}
	post.Touch(r.now().UTC())

	query :=
		`UPDATE posts SET title = $2, content = $3, image_url = $4, image_key = $5, updated_at = $6
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query,
		post.ID, post.Title, post.Content, post.Image.URL, post.Image.Key, post.UpdatedAt)
	return affectedOne(res, err)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorNotFound
	}

	query :=
		`DELETE FROM posts
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id)
	return affectedOne(res, err)
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) List(ctx context.Context, offset, limit int) ([]*models.Post, error) {
	query :=
		`SELECT id, title, content, image_url, image_key, creator_id, created_at, updated_at FROM posts
		 ORDER BY created_at DESC, id DESC
		 OFFSET $1 LIMIT $2
		 `

	rows, err := r.db.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func affectedOne(res sql.Result, err error) error {
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
