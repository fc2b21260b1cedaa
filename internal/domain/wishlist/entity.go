package wishlist

import "time"

// Entry 收藏条目
type Entry struct {
	ItemRef uint      `json:"item_ref"`
	AddedAt time.Time `json:"added_at"`
}

// Wishlist 收藏夹，每个用户一个，同一商品只出现一次
type Wishlist struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Entries   []Entry   `json:"entries"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Empty 用户还没有收藏夹时返回的空结构
func Empty(userID uint) *Wishlist {
	return &Wishlist{UserID: userID, Entries: []Entry{}}
}

// Contains 是否已收藏
func (w *Wishlist) Contains(itemRef uint) bool {
	for _, e := range w.Entries {
		if e.ItemRef == itemRef {
			return true
		}
	}
	return false
}

// Add 收藏商品，已存在返回ErrDuplicateEntry
func (w *Wishlist) Add(itemRef uint) error {
	if w.Contains(itemRef) {
		return ErrDuplicateEntry
	}
	now := time.Now()
	w.Entries = append(w.Entries, Entry{ItemRef: itemRef, AddedAt: now})
	w.UpdatedAt = now
	return nil
}

// Remove 取消收藏，不存在时返回false
func (w *Wishlist) Remove(itemRef uint) bool {
	for i, e := range w.Entries {
		if e.ItemRef == itemRef {
			w.Entries = append(w.Entries[:i], w.Entries[i+1:]...)
			w.UpdatedAt = time.Now()
			return true
		}
	}
	return false
}
