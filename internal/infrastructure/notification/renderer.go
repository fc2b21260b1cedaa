package notification

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/xiebiao/storefront/internal/domain/order"
)

// Message 待发送的邮件
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

var templateFuncs = template.FuncMap{
	"money": formatMoney,
}

var buyerTemplate = template.Must(template.New("buyer").Funcs(templateFuncs).Parse(
	`{{.Order.Customer.Name}}，您好：

感谢您在{{.Store}}下单，订单 {{.Order.OrderNo}} 已收到。

{{range .Order.Lines}}- {{.ItemName}} × {{.Quantity}}  {{money .Subtotal}}
{{end}}
合计：{{money .Order.TotalAmount}}

收货地址：{{with .Order.Customer.Address}}{{.State}} {{.City}} {{.Street}} {{.PostalCode}}{{end}}
联系电话：{{.Order.Customer.Phone}}
`))

var operatorTemplate = template.Must(template.New("operator").Funcs(templateFuncs).Parse(
	`新订单 {{.Order.OrderNo}}

买家：{{.Order.Customer.Name}} <{{.Order.Customer.Email}}>  {{.Order.Customer.Phone}}
地址：{{with .Order.Customer.Address}}{{.Street}}, {{.City}}, {{.State}} {{.PostalCode}}{{end}}

{{range .Order.Lines}}- [{{.ItemRef}}] {{.ItemName}} × {{.Quantity}} @ {{money .UnitPrice}} = {{money .Subtotal}}
{{end}}
合计：{{money .Order.TotalAmount}}（{{.Order.ItemCount}}件）
`))

// Renderer 渲染下单确认邮件
type Renderer struct {
	store    string
	from     string
	operator string
}

// NewRenderer operator为空时不给运营发邮件
func NewRenderer(store, from, operator string) *Renderer {
	return &Renderer{store: store, from: from, operator: operator}
}

// OrderPlaced 返回买家确认邮件和运营通知邮件
func (r *Renderer) OrderPlaced(o *order.Order) ([]Message, error) {
	data := struct {
		Store string
		Order *order.Order
	}{Store: r.store, Order: o}

	var msgs []Message

	if o.Customer.Email != "" {
		body, err := execute(buyerTemplate, data)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, Message{
			From:    r.from,
			To:      o.Customer.Email,
			Subject: fmt.Sprintf("[%s] 订单确认 %s", r.store, o.OrderNo),
			Body:    body,
		})
	}

	if r.operator != "" {
		body, err := execute(operatorTemplate, data)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, Message{
			From:    r.from,
			To:      r.operator,
			Subject: fmt.Sprintf("[%s] 新订单 %s", r.store, o.OrderNo),
			Body:    body,
		})
	}
	return msgs, nil
}

func execute(t *template.Template, data interface{}) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return b.String(), nil
}

// formatMoney 分 → 元，保留两位小数
func formatMoney(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s¥%d.%02d", sign, cents/100, cents%100)
}
