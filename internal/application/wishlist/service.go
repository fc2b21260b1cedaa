package wishlist

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/storefront/internal/domain/catalog"
	"github.com/xiebiao/storefront/internal/domain/wishlist"
)

// Service 收藏夹用例
type Service struct {
	repo    wishlist.Repository
	catalog catalog.Lookup
}

// NewService 创建收藏夹用例
func NewService(repo wishlist.Repository, lookup catalog.Lookup) *Service {
	return &Service{repo: repo, catalog: lookup}
}

// EntryView 收藏条目
type EntryView struct {
	ItemRef uint      `json:"item_ref"`
	AddedAt time.Time `json:"added_at"`
}

// View 收藏夹
type View struct {
	UserID  uint        `json:"user_id"`
	Entries []EntryView `json:"entries"`
}

func toView(w *wishlist.Wishlist) *View {
	v := &View{UserID: w.UserID, Entries: make([]EntryView, len(w.Entries))}
	for i, e := range w.Entries {
		v.Entries[i] = EntryView{ItemRef: e.ItemRef, AddedAt: e.AddedAt}
	}
	return v
}

// Get 没有收藏夹时返回空列表
func (s *Service) Get(ctx context.Context, userID uint) (*View, error) {
	w, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toView(w), nil
}

// Add 收藏商品，商品必须存在；已下架的商品也可以收藏
func (s *Service) Add(ctx context.Context, userID, itemRef uint) (*View, error) {
	if _, err := s.catalog.Resolve(ctx, itemRef); err != nil {
		return nil, err
	}
	if err := s.repo.Add(ctx, userID, itemRef); err != nil {
		return nil, err
	}
	zap.L().Debug("加入收藏", zap.Uint("user_id", userID), zap.Uint("item_ref", itemRef))
	return s.Get(ctx, userID)
}

// Remove 幂等
func (s *Service) Remove(ctx context.Context, userID, itemRef uint) (*View, error) {
	if err := s.repo.Remove(ctx, userID, itemRef); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}
