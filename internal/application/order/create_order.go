package order

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/storefront/internal/domain/cart"
	"github.com/xiebiao/storefront/internal/domain/catalog"
	"github.com/xiebiao/storefront/internal/domain/order"
	"github.com/xiebiao/storefront/internal/domain/user"
	"github.com/xiebiao/storefront/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/storefront/pkg/metrics"
	"github.com/xiebiao/storefront/pkg/tracing"
)

const tracerName = "storefront/application/order"

// CreateOptions 下单行为配置
type CreateOptions struct {
	// VerifyPrices为true时单价取购物车快照、名称取商品目录，忽略请求里的价格和名称
	VerifyPrices bool
	// MaxAttempts 订单号冲突时最多尝试次数
	MaxAttempts int
	// NotifyTimeout 单次通知的超时时间
	NotifyTimeout time.Duration
}

// CreateOrderUseCase 创建订单用例
//
// 流程：参数校验 → 买家快照 → 确定明细价格 → 事务内写入订单和明细（订单号冲突重试）→ 提交后异步通知。
// 下单不清空购物车，由客户端在下单成功后调用清空接口。
type CreateOrderUseCase struct {
	orderRepo order.Repository
	cartRepo  cart.Repository
	userRepo  user.Repository
	catalog   catalog.Lookup
	txManager *mysql.TxManager
	numbers   *order.NumberGenerator
	notifier  order.Notifier
	opts      CreateOptions

	inflight sync.WaitGroup
}

// NewCreateOrderUseCase 创建下单用例
func NewCreateOrderUseCase(
	orderRepo order.Repository,
	cartRepo cart.Repository,
	userRepo user.Repository,
	lookup catalog.Lookup,
	txManager *mysql.TxManager,
	numbers *order.NumberGenerator,
	notifier order.Notifier,
	opts CreateOptions,
) *CreateOrderUseCase {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 5
	}
	if opts.NotifyTimeout <= 0 {
		opts.NotifyTimeout = 10 * time.Second
	}
	return &CreateOrderUseCase{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		userRepo:  userRepo,
		catalog:   lookup,
		txManager: txManager,
		numbers:   numbers,
		notifier:  notifier,
		opts:      opts,
	}
}

// CreateOrderRequest 下单请求
type CreateOrderRequest struct {
	UserID  uint
	Lines   []CreateOrderLine
	Address order.Address
	Phone   string
}

// CreateOrderLine 下单明细
// ItemName和UnitPrice只在不校验价格时使用
type CreateOrderLine struct {
	ItemRef   uint
	ItemName  string
	UnitPrice int64
	Quantity  int
}

// Execute 执行下单
func (uc *CreateOrderUseCase) Execute(ctx context.Context, req CreateOrderRequest) (_ *OrderView, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "CreateOrder")
	defer span.End()
	span.SetAttributes(attribute.Int("order.user_id", int(req.UserID)), attribute.Int("order.lines", len(req.Lines)))

	start := time.Now()
	metrics.OrdersInProgress.Inc()
	defer func() {
		metrics.OrdersInProgress.Dec()
		metrics.OrderCreationDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.OrdersFailedTotal.Inc()
			tracing.RecordError(span, err)
		}
	}()

	if err := validate(req); err != nil {
		return nil, err
	}

	buyer, err := uc.userRepo.FindByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	customer := order.Customer{
		Name:    buyer.Name,
		Email:   buyer.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}

	inputs, err := uc.resolveLines(ctx, req)
	if err != nil {
		return nil, err
	}

	o, err := order.NewOrder(req.UserID, customer, inputs)
	if err != nil {
		return nil, err
	}

	if err := uc.persist(ctx, o); err != nil {
		return nil, err
	}

	metrics.OrdersCreatedTotal.Inc()
	span.SetAttributes(attribute.String("order.no", o.OrderNo))
	zap.L().Info("订单创建成功",
		zap.String("order_no", o.OrderNo),
		zap.Uint("user_id", o.UserID),
		zap.Int64("total_amount", o.TotalAmount),
	)

	uc.dispatch(ctx, o)
	return toOrderView(o), nil
}

// validate 在任何查询和写入之前完成全部参数校验
func validate(req CreateOrderRequest) error {
	if len(req.Lines) == 0 {
		return order.ErrEmptyLines
	}
	for _, l := range req.Lines {
		if l.Quantity < 1 || l.Quantity > order.MaxLineQuantity {
			return order.ErrInvalidQuantity
		}
	}
	if err := req.Address.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(req.Phone) == "" {
		return order.ErrMissingPhone
	}
	return nil
}

// resolveLines 确定每行的商品名称和单价
func (uc *CreateOrderUseCase) resolveLines(ctx context.Context, req CreateOrderRequest) ([]order.LineInput, error) {
	inputs := make([]order.LineInput, len(req.Lines))

	if !uc.opts.VerifyPrices {
		for i, l := range req.Lines {
			inputs[i] = order.LineInput{
				ItemRef:   l.ItemRef,
				ItemName:  l.ItemName,
				UnitPrice: l.UnitPrice,
				Quantity:  l.Quantity,
			}
		}
		return inputs, nil
	}

	c, err := uc.cartRepo.FindByUserID(ctx, req.UserID)
	if errors.Is(err, cart.ErrCartNotFound) {
		return nil, order.ErrItemNotInCart
	}
	if err != nil {
		return nil, err
	}

	for i, l := range req.Lines {
		line, ok := c.Line(l.ItemRef)
		if !ok {
			return nil, order.ErrItemNotInCart
		}

		item, err := uc.catalog.Resolve(ctx, l.ItemRef)
		if errors.Is(err, catalog.ErrItemNotFound) {
			return nil, order.ErrItemUnavailable
		}
		if err != nil {
			return nil, err
		}
		if !item.IsActive {
			return nil, order.ErrItemUnavailable
		}

		inputs[i] = order.LineInput{
			ItemRef:   l.ItemRef,
			ItemName:  item.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  l.Quantity,
		}
	}
	return inputs, nil
}

// persist 分配订单号并在事务内写入，订单号冲突时换号重试
func (uc *CreateOrderUseCase) persist(ctx context.Context, o *order.Order) error {
	for attempt := 1; attempt <= uc.opts.MaxAttempts; attempt++ {
		o.OrderNo = uc.numbers.Next()

		err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
			return uc.orderRepo.Create(txCtx, o)
		})
		if err == nil {
			return nil
		}
		if !errors.Is(err, order.ErrOrderNoConflict) {
			return err
		}

		metrics.OrderNoCollisionsTotal.Inc()
		zap.L().Warn("订单号冲突，重新生成",
			zap.String("order_no", o.OrderNo),
			zap.Int("attempt", attempt),
		)
	}
	return order.ErrOrderNoConflict
}

// dispatch 提交后异步发送通知，失败只记录日志
func (uc *CreateOrderUseCase) dispatch(ctx context.Context, o *order.Order) {
	if uc.notifier == nil {
		return
	}

	ctx = context.WithoutCancel(ctx)
	uc.inflight.Add(1)
	go func() {
		defer uc.inflight.Done()

		ctx, cancel := context.WithTimeout(ctx, uc.opts.NotifyTimeout)
		defer cancel()

		if err := uc.notifier.NotifyOrderPlaced(ctx, o); err != nil {
			zap.L().Error("订单通知发送失败",
				zap.String("order_no", o.OrderNo),
				zap.Error(err),
			)
		}
	}()
}

// Wait 等待所有已发出的通知结束，服务退出前调用
func (uc *CreateOrderUseCase) Wait() {
	uc.inflight.Wait()
}
