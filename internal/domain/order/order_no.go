package order

import (
	"math/rand/v2"
	"regexp"
	"strings"
	"sync"
	"time"
)

const (
	orderNoAlphabet   = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	orderNoRandomSize = 4
)

// orderNoPattern PREFIX-YYMMDD-XXXX
var orderNoPattern = regexp.MustCompile(`^[A-Z0-9]{1,6}-\d{6}-[A-Z0-9]{4}$`)

// NumberGenerator 订单号生成器
//
// 格式：PREFIX-YYMMDD-XXXX，XXXX为4位随机base36字符（约168万种组合/天）。
// 不保证唯一，唯一性由orders.order_no唯一索引兜底，冲突时重新生成。
type NumberGenerator struct {
	prefix string
	now    func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand // nil时使用全局随机源
}

// NewNumberGenerator 创建订单号生成器
func NewNumberGenerator(prefix string) *NumberGenerator {
	return &NumberGenerator{
		prefix: strings.ToUpper(prefix),
		now:    time.Now,
	}
}

// NewSeededNumberGenerator 固定随机种子，相同种子生成相同的序列
func NewSeededNumberGenerator(prefix string, seed uint64) *NumberGenerator {
	g := NewNumberGenerator(prefix)
	g.rnd = rand.New(rand.NewPCG(seed, seed))
	return g
}

// Next 生成一个订单号
func (g *NumberGenerator) Next() string {
	var b strings.Builder
	b.Grow(len(g.prefix) + 12)
	b.WriteString(g.prefix)
	b.WriteByte('-')
	b.WriteString(g.now().Format("060102"))
	b.WriteByte('-')
	for i := 0; i < orderNoRandomSize; i++ {
		b.WriteByte(orderNoAlphabet[g.intN(len(orderNoAlphabet))])
	}
	return b.String()
}

func (g *NumberGenerator) intN(n int) int {
	if g.rnd == nil {
		return rand.IntN(n)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rnd.IntN(n)
}

// IsValidOrderNo 校验订单号格式
func IsValidOrderNo(s string) bool {
	return orderNoPattern.MatchString(s)
}
