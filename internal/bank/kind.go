// internal/bank/kind.go
//
// 本檔定義帳戶種類 Kind 與建立參數 Params。

package bank

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind 為帳戶種類（封閉集合），建立時決定，之後不可變更。
type Kind int

const (
	KindStandard Kind = iota + 1
	KindInterest
	KindOverdraft
)

// String 回傳種類的文字名稱（standard / interest / overdraft）。
func (k Kind) String() string {
	switch k {
	case KindStandard:
		return "standard"
	case KindInterest:
		return "interest"
	case KindOverdraft:
		return "overdraft"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind 解析帳戶種類名稱（不分大小寫）。
// 另接受 savings / checking 兩個舊稱。
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "standard":
		return KindStandard, nil
	case "interest", "savings":
		return KindInterest, nil
	case "overdraft", "checking":
		return KindOverdraft, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// MarshalText 讓 Kind 在 JSON 中以文字名稱呈現；未知種類回傳 ErrUnknownKind。
func (k Kind) MarshalText() ([]byte, error) {
	switch k {
	case KindStandard, KindInterest, KindOverdraft:
		return []byte(k.String()), nil
	}
	return nil, ErrUnknownKind
}

// UnmarshalText 以 ParseKind 解析文字名稱（含舊稱）。
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Params 為 Registry.Create 的種類選擇與種類專屬參數。
// InterestRate 僅對 KindInterest 有意義；OverdraftFee 僅對 KindOverdraft 有意義。
type Params struct {
	Kind         Kind
	InterestRate decimal.Decimal // 小數，0.05 = 5%
	OverdraftFee decimal.Decimal
}

// Standard 回傳一般帳戶的建立參數。
func Standard() Params { return Params{Kind: KindStandard} }

// Interest 回傳利息帳戶的建立參數。
func Interest(rate decimal.Decimal) Params { return Params{Kind: KindInterest, InterestRate: rate} }

// Overdraft 回傳透支帳戶的建立參數。
func Overdraft(fee decimal.Decimal) Params { return Params{Kind: KindOverdraft, OverdraftFee: fee} }

func (p Params) validate() error {
	switch p.Kind {
	case KindStandard:
	case KindInterest:
		if !inRange(p.InterestRate) {
			return fmt.Errorf("%w: interest rate out of range", ErrBadParams)
		}
		if p.InterestRate.IsNegative() {
			return fmt.Errorf("%w: interest rate %s is negative", ErrBadParams, p.InterestRate)
		}
	case KindOverdraft:
		if !inRange(p.OverdraftFee) {
			return fmt.Errorf("%w: overdraft fee out of range", ErrBadParams)
		}
		if p.OverdraftFee.IsNegative() {
			return fmt.Errorf("%w: overdraft fee %s is negative", ErrBadParams, p.OverdraftFee)
		}
	default:
		return ErrUnknownKind
	}
	return nil
}
