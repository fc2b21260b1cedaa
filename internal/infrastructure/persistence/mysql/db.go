package mysql

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/storefront/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 生产使用MySQL，database.driver=sqlite时使用纯Go的SQLite（本地运行和测试）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info
	}

	db, err := Open(cfg.Database, logLevel)
	if err != nil {
		return nil, err
	}

	if cfg.Database.AutoMigrate {
		if err := AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("数据库迁移失败: %w", err)
		}
	}

	zap.L().Info("数据库连接成功", zap.String("driver", cfg.Database.Driver))
	return db, nil
}

// Open 按驱动打开连接并配置连接池
func Open(dbCfg config.DatabaseConfig, logLevel logger.LogLevel) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch dbCfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(dbCfg.DSN())
	default:
		dialector = mysql.Open(dbCfg.DSN())
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().Truncate(time.Microsecond)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	if dbCfg.Driver == "sqlite" {
		// SQLite同一时刻只允许一个写事务，单连接让事务排队而不是返回SQLITE_BUSY
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(dbCfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(dbCfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(dbCfg.ConnMaxLifetime)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}
	return db, nil
}

// AutoMigrate 自动迁移表结构
// 只会创建表和添加字段，生产环境应使用版本化的迁移脚本
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&CatalogItemModel{},
		&CartModel{},
		&CartItemModel{},
		&OrderModel{},
		&OrderItemModel{},
		&WishlistModel{},
		&WishlistItemModel{},
	)
}

// UserModel GORM用户模型
// domain/user/entity.go是领域实体，Repository负责两者之间的转换
type UserModel struct {
	ID        uint           `gorm:"primaryKey"`
	Email     string         `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password  string         `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	Name      string         `gorm:"size:50;not null;comment:名称"`
	Role      string         `gorm:"size:16;not null;default:customer;comment:角色"`
	CreatedAt time.Time      `gorm:"comment:创建时间"`
	UpdatedAt time.Time      `gorm:"comment:更新时间"`
	DeletedAt gorm.DeletedAt `gorm:"index;comment:删除时间（软删除）"`
}

func (UserModel) TableName() string {
	return "users"
}

// CatalogItemModel GORM商品模型
// 价格使用int64存储"分"
type CatalogItemModel struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"index:idx_search;size:200;not null;comment:商品名称"`
	Price     int64     `gorm:"not null;comment:价格(分)"`
	IsActive  bool      `gorm:"index:idx_list;not null;comment:是否上架"`
	CreatedAt time.Time `gorm:"index:idx_list;comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

func (CatalogItemModel) TableName() string {
	return "catalog_items"
}

// CartModel GORM购物车模型
// user_id唯一：每个用户最多一个购物车，并发创建时由唯一索引兜底
type CartModel struct {
	ID          uint            `gorm:"primaryKey"`
	UserID      uint            `gorm:"uniqueIndex;not null;comment:用户ID"`
	TotalAmount int64           `gorm:"not null;default:0;comment:总金额(分)"`
	Items       []CartItemModel `gorm:"foreignKey:CartID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (CartModel) TableName() string {
	return "carts"
}

// CartItemModel GORM购物车行模型
// (cart_id, item_ref)唯一，Position保存加入顺序
type CartItemModel struct {
	ID        uint  `gorm:"primaryKey"`
	CartID    uint  `gorm:"uniqueIndex:idx_cart_item;not null;comment:购物车ID"`
	ItemRef   uint  `gorm:"uniqueIndex:idx_cart_item;not null;comment:商品ID"`
	Quantity  int   `gorm:"not null;comment:数量"`
	UnitPrice int64 `gorm:"not null;comment:加入时单价(分)"`
	Position  int   `gorm:"not null;default:0;comment:加入顺序"`
}

func (CartItemModel) TableName() string {
	return "cart_items"
}

// OrderModel GORM订单模型
// 买家信息和收货地址按下单时快照存储，不关联users表
type OrderModel struct {
	ID             uint             `gorm:"primaryKey"`
	OrderNo        string           `gorm:"uniqueIndex;size:32;not null;comment:订单号"`
	UserID         uint             `gorm:"index;not null;comment:买家用户ID"`
	CustomerName   string           `gorm:"size:100;not null;comment:买家名称"`
	CustomerEmail  string           `gorm:"size:100;not null;comment:买家邮箱"`
	CustomerPhone  string           `gorm:"size:32;not null;comment:联系电话"`
	ShipStreet     string           `gorm:"size:255;not null;comment:街道"`
	ShipCity       string           `gorm:"size:100;not null;comment:城市"`
	ShipState      string           `gorm:"size:100;not null;comment:省份"`
	ShipPostalCode string           `gorm:"size:20;not null;comment:邮编"`
	TotalAmount    int64            `gorm:"not null;comment:订单总金额(分)"`
	Status         string           `gorm:"index;size:16;not null;default:pending;comment:订单状态(pending/confirmed/delivered/cancelled)"`
	Items          []OrderItemModel `gorm:"foreignKey:OrderID"`
	CreatedAt      time.Time        `gorm:"index;comment:创建时间"`
	UpdatedAt      time.Time        `gorm:"comment:更新时间"`
}

func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel GORM订单明细模型
// ItemName和UnitPrice是下单时的快照
type OrderItemModel struct {
	ID        uint   `gorm:"primaryKey"`
	OrderID   uint   `gorm:"index;not null;comment:订单ID"`
	ItemRef   uint   `gorm:"index;not null;comment:商品ID"`
	ItemName  string `gorm:"size:200;not null;comment:下单时商品名称"`
	UnitPrice int64  `gorm:"not null;comment:下单时单价(分)"`
	Quantity  int    `gorm:"not null;comment:购买数量"`
	Subtotal  int64  `gorm:"not null;comment:小计(分)"`
}

func (OrderItemModel) TableName() string {
	return "order_items"
}

// WishlistModel GORM收藏夹模型
type WishlistModel struct {
	ID        uint                `gorm:"primaryKey"`
	UserID    uint                `gorm:"uniqueIndex;not null;comment:用户ID"`
	Items     []WishlistItemModel `gorm:"foreignKey:WishlistID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (WishlistModel) TableName() string {
	return "wishlists"
}

// WishlistItemModel (wishlist_id, item_ref)唯一
type WishlistItemModel struct {
	ID         uint `gorm:"primaryKey"`
	WishlistID uint `gorm:"uniqueIndex:idx_wishlist_item;not null"`
	ItemRef    uint `gorm:"uniqueIndex:idx_wishlist_item;not null"`
	CreatedAt  time.Time
}

func (WishlistItemModel) TableName() string {
	return "wishlist_items"
}
