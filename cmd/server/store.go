package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/iliyamo/book-api/internal/config"
	"github.com/iliyamo/book-api/internal/database"
	"github.com/iliyamo/book-api/internal/dto"
	"github.com/iliyamo/book-api/internal/repository"
	"github.com/iliyamo/book-api/internal/service"
)

// stores bundles the persistence backends selected by STORE_DRIVER.
type stores struct {
	users  service.UserStore
	tokens service.RefreshTokenStore
	books  service.BookStore
	cats   service.CategoryStore
	close  func() error
}

func openStores(ctx context.Context, cfg config.Config, log *zap.Logger) (stores, error) {
	if cfg.StoreDriver == config.StoreMemory {
		users := repository.NewMemoryUserRepo()
		books, cats := repository.NewMemoryCatalog()
		if err := seedCatalog(ctx, service.NewBookService(books, cats), service.NewCategoryService(cats)); err != nil {
			return stores{}, fmt.Errorf("seed catalog: %w", err)
		}
		log.Info("using in-memory store")
		return stores{users: users, tokens: users, books: books, cats: cats, close: func() error { return nil }}, nil
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return stores{}, fmt.Errorf("open database: %w", err)
	}
	if cfg.MigrateOnStart {
		if err := database.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return stores{}, fmt.Errorf("migrate: %w", err)
		}
		log.Info("migrations applied")
	}
	log.Info("connected to mysql", zap.String("host", cfg.DBHost), zap.String("db", cfg.DBName))
	return stores{
		users:  repository.NewUserRepo(db),
		tokens: repository.NewTokenRepo(db),
		books:  repository.NewBookRepo(db),
		cats:   repository.NewCategoryRepo(db),
		close:  db.Close,
	}, nil
}

// seedCatalog loads the same starter rows the SQL migrations insert, so the
// in-memory store behaves like a freshly migrated database.
func seedCatalog(ctx context.Context, books *service.BookService, cats *service.CategoryService) error {
	ids := map[string]int64{}
	for _, name := range []string{"Novel", "History", "Science"} {
		c, err := cats.Create(ctx, dto.CategoryRequest{CategoryName: name})
		if err != nil {
			return err
		}
		ids[name] = c.ID
	}
	seed := []dto.BookRequest{
		{Title: "Devlet", Price: 20, CategoryID: ids["History"]},
		{Title: "Ateşten Gömlek", Price: 15.50, CategoryID: ids["Novel"]},
		{Title: "Huzur", Price: 18.75, CategoryID: ids["Novel"]},
	}
	for _, b := range seed {
		if _, err := books.Create(ctx, b); err != nil {
			return err
		}
	}
	return nil
}
