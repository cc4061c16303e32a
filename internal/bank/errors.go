// internal/bank/errors.go
//
// 本檔集中定義「領域錯誤（domain errors）」。
// 這些錯誤屬於帳戶規則層級（非系統錯誤），由上層 dispatcher（例如 HTTP handler）
// 轉換成適當的回應。呼叫端一律以 errors.Is 比對。

package bank

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound 代表帳戶不存在（或已被 Close）。
	ErrNotFound = errors.New("account not found")

	// ErrBadAmount 代表存提款金額非法（<= 0）。
	ErrBadAmount = errors.New("amount must be > 0")

	// ErrInsufficient 代表餘額不足，提款失敗。
	ErrInsufficient = errors.New("insufficient funds")

	// ErrNotApplicable 代表對非利息帳戶執行計息。
	ErrNotApplicable = errors.New("operation not applicable to this account kind")

	// ErrFeeUncollected 代表透支事件已將餘額歸零，但手續費未能扣收。
	ErrFeeUncollected = errors.New("overdraft fee uncollected")

	// ErrUnknownKind 代表未知的帳戶種類。
	ErrUnknownKind = errors.New("unknown account kind")

	// ErrBadParams 代表建立參數非法（利率或手續費為負）。
	ErrBadParams = errors.New("invalid account parameters")
)

// OverdraftError 描述一次未收到手續費的透支事件。
// 此時餘額已歸零（Drained 為被提走的金額），Fee 未扣收。
type OverdraftError struct {
	AccountID int64
	Requested decimal.Decimal
	Drained   decimal.Decimal
	Fee       decimal.Decimal
}

func (e *OverdraftError) Error() string {
	return fmt.Sprintf("account %d overdrawn: requested %s, drained %s, fee %s uncollected",
		e.AccountID, e.Requested, e.Drained, e.Fee)
}

// Is 讓 errors.Is 同時匹配 ErrInsufficient 與 ErrFeeUncollected。
func (e *OverdraftError) Is(target error) bool {
	return target == ErrInsufficient || target == ErrFeeUncollected
}
