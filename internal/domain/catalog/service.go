package catalog

import (
	"context"
)

// Service 商品领域服务
type Service interface {
	Lookup

	Publish(ctx context.Context, name string, price int64) (*Item, error)

	// Update 只修改非nil的字段
	Update(ctx context.Context, id uint, changes Changes) (*Item, error)

	List(ctx context.Context, params ListParams) ([]*Item, int64, error)
}

// Changes 商品可修改字段
type Changes struct {
	Name     *string
	Price    *int64
	IsActive *bool
}

type service struct {
	repo Repository
}

// NewService 创建商品领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Resolve 查询商品当前信息
func (s *service) Resolve(ctx context.Context, itemRef uint) (*Item, error) {
	if itemRef == 0 {
		return nil, ErrItemNotFound
	}
	return s.repo.FindByID(ctx, itemRef)
}

// Publish 上架新商品
func (s *service) Publish(ctx context.Context, name string, price int64) (*Item, error) {
	item, err := NewItem(name, price)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Update 修改商品信息
func (s *service) Update(ctx context.Context, id uint, changes Changes) (*Item, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if changes.Name != nil {
		if err := item.Rename(*changes.Name); err != nil {
			return nil, err
		}
	}
	if changes.Price != nil {
		if err := item.ChangePrice(*changes.Price); err != nil {
			return nil, err
		}
	}
	if changes.IsActive != nil {
		item.SetActive(*changes.IsActive)
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// List 分页查询
func (s *service) List(ctx context.Context, params ListParams) ([]*Item, int64, error) {
	params.Normalize()
	return s.repo.List(ctx, params)
}
