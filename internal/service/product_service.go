package service

import (
	"context"

	"github.com/fsdevblog/shoply/internal/domain"
	"github.com/fsdevblog/shoply/internal/repository/repoargs"
	"github.com/fsdevblog/shoply/pkg/uow"
)

type ProductService struct {
	uow         uow.UOW
	productRepo ProductRepository
}

func NewProductService(u uow.UOW) (*ProductService, error) {
	productRepo, err := uow.GetRepositoryAs[ProductRepository](u, uow.RepositoryName(repoargs.ProductRepoName))
	if err != nil {
		return nil, err
	}
	return &ProductService{
		uow:         u,
		productRepo: productRepo,
	}, nil
}

// List возвращает каталог продуктов.
func (p *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	products, err := p.productRepo.List(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return products, nil
}
