// Package payment 支付领域 - 支付意向创建与支付记录
package payment

import (
	"context"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
)

// IntentCreator 支付处理器抽象
// 隔离外部 API，测试时以假实现替换
type IntentCreator interface {
	// CreateIntent 按最小货币单位金额创建支付意向，返回 client secret
	CreateIntent(ctx context.Context, amount int64, currency string) (string, error)
}

// StripeProcessor 基于 Stripe PaymentIntents API 的实现
type StripeProcessor struct{}

// NewStripeProcessor 设置 Stripe 密钥并返回处理器
func NewStripeProcessor(secretKey string) *StripeProcessor {
	stripe.Key = secretKey
	return &StripeProcessor{}
}

func (p *StripeProcessor) CreateIntent(ctx context.Context, amount int64, currency string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Params:             stripe.Params{Context: ctx},
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	intent, err := paymentintent.New(params)
	if err != nil {
		return "", err
	}
	return intent.ClientSecret, nil
}
