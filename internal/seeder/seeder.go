package seeder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	blogmodels "paraiso/internal/blog/models"
	charcmodels "paraiso/internal/charcuterie/models"
)

// PostStore defines methods for seeding blog posts
type PostStore interface {
	Upsert(ctx context.Context, post *blogmodels.Post) error
}

// ProductStore defines methods for seeding the charcuterie catalogue
type ProductStore interface {
	Upsert(ctx context.Context, product *charcmodels.Product) error
}

// Seeder populates content stores with demo data
type Seeder struct {
	posts    PostStore
	products ProductStore
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a new seeder
func New(posts PostStore, products ProductStore, logger *slog.Logger) *Seeder {
	return &Seeder{
		posts:    posts,
		products: products,
		logger:   logger,
		now:      time.Now,
	}
}

// SeedAll populates all stores with demo data
func (s *Seeder) SeedAll(ctx context.Context) error {
	s.logger.Info("seeding demo content...")

	posts, err := s.seedPosts(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed blog posts: %w", err)
	}

	products, err := s.seedProducts(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed charcuterie: %w", err)
	}

	s.logger.Info("demo content seeded successfully",
		"posts", posts,
		"products", products,
	)

	return nil
}

func (s *Seeder) seedPosts(ctx context.Context) (int, error) {
	now := s.now()

	// Every article exists in the three site languages with its own slug
	demoPosts := []struct {
		id        int
		published time.Duration
		updated   time.Duration
		image     string
		versions  map[string][2]string // locale -> slug, title
	}{
		{1, -30 * 24 * time.Hour, 0, "/images/blog/jamon-iberico.jpg", map[string][2]string{
			"es": {"como-cortar-jamon-iberico", "Cómo cortar un jamón ibérico"},
			"en": {"how-to-carve-iberian-ham", "How to carve an Iberian ham"},
			"de": {"iberischen-schinken-schneiden", "Wie man iberischen Schinken schneidet"},
		}},
		{2, -20 * 24 * time.Hour, -2 * 24 * time.Hour, "/images/blog/bravo-murillo.jpg", map[string][2]string{
			"es": {"nuevo-local-bravo-murillo", "Nuestro local de Bravo Murillo"},
			"en": {"new-bravo-murillo-restaurant", "Our Bravo Murillo restaurant"},
			"de": {"neues-restaurant-bravo-murillo", "Unser Restaurant in Bravo Murillo"},
		}},
		{3, -7 * 24 * time.Hour, 0, "/images/blog/maridaje.jpg", map[string][2]string{
			"es": {"maridaje-vino-embutidos", "Maridaje de vinos y embutidos"},
			"en": {"wine-and-charcuterie-pairing", "Pairing wine and charcuterie"},
		}},
	}

	count := 0
	for _, p := range demoPosts {
		for loc, v := range p.versions {
			post := &blogmodels.Post{
				ID:          p.id,
				Locale:      loc,
				Slug:        v[0],
				Title:       v[1],
				Content:     v[1] + ".",
				Author:      "Paraíso del Jamón",
				ImageURL:    p.image,
				PublishedAt: now.Add(p.published),
			}
			if p.updated != 0 {
				updated := now.Add(p.updated)
				post.UpdatedAt = &updated
			}

			if err := s.posts.Upsert(ctx, post); err != nil {
				return count, err
			}
			count++
		}
	}

	return count, nil
}

func (s *Seeder) seedProducts(ctx context.Context) (int, error) {
	now := s.now()

	demoProducts := []struct {
		id       int
		image    string
		versions map[string][3]string // locale -> name, description, category
	}{
		{1, "/images/charcuteria/jamon-bellota.jpg", map[string][3]string{
			"es": {"Jamón ibérico de bellota", "Curado 36 meses.", "Jamones"},
			"en": {"Acorn-fed Iberian ham", "Cured for 36 months.", "Hams"},
			"de": {"Iberischer Eichelschinken", "36 Monate gereift.", "Schinken"},
		}},
		{2, "/images/charcuteria/chorizo.jpg", map[string][3]string{
			"es": {"Chorizo ibérico", "Pimentón de la Vera.", "Embutidos"},
			"en": {"Iberian chorizo", "Smoked Vera paprika.", "Sausages"},
			"de": {"Iberische Chorizo", "Geräucherter Vera-Paprika.", "Würste"},
		}},
		{3, "/images/charcuteria/lomo.jpg", map[string][3]string{
			"es": {"Lomo ibérico", "Lomo embuchado de bellota.", "Embutidos"},
			"en": {"Iberian loin", "Acorn-fed cured loin.", "Sausages"},
			"de": {"Iberische Lende", "Luftgetrocknete Eichellende.", "Würste"},
		}},
	}

	count := 0
	for _, p := range demoProducts {
		for loc, v := range p.versions {
			product := &charcmodels.Product{
				ID:          p.id,
				Locale:      loc,
				Name:        v[0],
				Description: v[1],
				ImageURL:    p.image,
				Category:    v[2],
				CreatedAt:   now,
			}

			if err := s.products.Upsert(ctx, product); err != nil {
				return count, err
			}
			count++
		}
	}

	return count, nil
}
