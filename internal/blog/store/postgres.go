package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"paraiso/internal/blog/models"
)

// PostgresStore reads posts from the blog table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const postColumns = `id_noticia, idioma, slug, titulo, contenido, autor, imagen_url, imagen_url_2, fecha_publicacion, fecha_actualizacion`

func (s *PostgresStore) Upsert(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO blog (` + postColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, COALESCE($10, $9))
		ON CONFLICT (id_noticia, idioma) DO UPDATE SET
			slug = EXCLUDED.slug,
			titulo = EXCLUDED.titulo,
			contenido = EXCLUDED.contenido,
			autor = EXCLUDED.autor,
			imagen_url = EXCLUDED.imagen_url,
			imagen_url_2 = EXCLUDED.imagen_url_2,
			fecha_publicacion = EXCLUDED.fecha_publicacion,
			fecha_actualizacion = EXCLUDED.fecha_actualizacion
	`
	var updated sql.NullTime
	if post.UpdatedAt != nil {
		updated = sql.NullTime{Time: *post.UpdatedAt, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, query,
		post.ID,
		post.Locale,
		post.Slug,
		post.Title,
		post.Content,
		post.Author,
		post.ImageURL,
		post.ImageURL2,
		post.PublishedAt,
		updated,
	)
	if err != nil {
		return fmt.Errorf("upsert blog post: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, locale string) ([]models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM blog
		WHERE idioma = $1
		ORDER BY COALESCE(fecha_actualizacion, fecha_publicacion) DESC, id_noticia DESC
	`
	rows, err := s.db.QueryContext(ctx, query, locale)
	if err != nil {
		return nil, fmt.Errorf("list blog posts: %w", err)
	}
	defer rows.Close()

	out := make([]models.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan blog post: %w", err)
		}
		out = append(out, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate blog posts: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) FindBySlug(ctx context.Context, slug, locale string) (*models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM blog
		WHERE slug = $1 AND ($2 = '' OR idioma = $2)
		ORDER BY idioma
		LIMIT 1
	`
	post, err := scanPost(s.db.QueryRowContext(ctx, query, slug, locale))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("find blog post by slug: %w", err)
	}
	return post, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id int, locale string) (*models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM blog
		WHERE id_noticia = $1 AND idioma = $2
	`
	post, err := scanPost(s.db.QueryRowContext(ctx, query, id, locale))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("find blog post by id: %w", err)
	}
	return post, nil
}

type postRow interface {
	Scan(dest ...any) error
}

func scanPost(row postRow) (*models.Post, error) {
	var (
		post    models.Post
		image2  sql.NullString
		updated sql.NullTime
	)
	if err := row.Scan(
		&post.ID,
		&post.Locale,
		&post.Slug,
		&post.Title,
		&post.Content,
		&post.Author,
		&post.ImageURL,
		&image2,
		&post.PublishedAt,
		&updated,
	); err != nil {
		return nil, err
	}
	if image2.Valid {
		post.ImageURL2 = &image2.String
	}
	if updated.Valid {
		post.UpdatedAt = &updated.Time
	}
	return &post, nil
}
