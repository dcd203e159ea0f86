package store

import (
	"context"
	"database/sql"
	"fmt"

	"paraiso/internal/charcuterie/models"
)

// PostgresStore reads the charcuteria table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Upsert(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO charcuteria (id_producto, idioma, nombre, descripcion, imagen_url, categoria, fecha)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id_producto, idioma) DO UPDATE SET
			nombre = EXCLUDED.nombre,
			descripcion = EXCLUDED.descripcion,
			imagen_url = EXCLUDED.imagen_url,
			categoria = EXCLUDED.categoria,
			fecha = EXCLUDED.fecha
	`
	_, err := s.db.ExecContext(ctx, query,
		product.ID,
		product.Locale,
		product.Name,
		product.Description,
		product.ImageURL,
		product.Category,
		product.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert charcuterie product: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, locale string) ([]models.Product, error) {
	query := `
		SELECT id_producto, idioma, nombre, descripcion, imagen_url, categoria, fecha
		FROM charcuteria
		WHERE idioma = $1
		ORDER BY categoria, nombre
	`
	rows, err := s.db.QueryContext(ctx, query, locale)
	if err != nil {
		return nil, fmt.Errorf("list charcuterie: %w", err)
	}
	defer rows.Close()

	out := make([]models.Product, 0)
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Locale, &p.Name, &p.Description, &p.ImageURL, &p.Category, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan charcuterie product: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate charcuterie: %w", err)
	}
	return out, nil
}
