// internal/bank/view.go
//
// 本檔定義帳戶快照 View 及其文字呈現。

package bank

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// View 為帳戶的唯讀快照（Describe 的結果），可直接序列化為 JSON。
type View struct {
	ID      int64           `json:"id"`
	Owner   string          `json:"owner"`
	Balance decimal.Decimal `json:"balance"`
	Kind    Kind            `json:"kind"`

	InterestRatePct *decimal.Decimal `json:"interest_rate_pct,omitempty"`
	OverdraftFee    *decimal.Decimal `json:"overdraft_fee,omitempty"`
}

// String 以多行文字呈現帳戶資訊，金額以美元格式顯示。
func (v View) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Account Number: %d\n", v.ID)
	fmt.Fprintf(&b, "Owner: %s\n", v.Owner)
	fmt.Fprintf(&b, "Kind: %s\n", v.Kind)
	fmt.Fprintf(&b, "Balance: %s\n", displayUSD(v.Balance))
	if v.InterestRatePct != nil {
		fmt.Fprintf(&b, "Interest Rate: %s%%\n", v.InterestRatePct.String())
	}
	if v.OverdraftFee != nil {
		fmt.Fprintf(&b, "Overdraft Fee: %s\n", displayUSD(*v.OverdraftFee))
	}
	return b.String()
}

// displayUSD 將金額四捨五入到分後交給 go-money 格式化。
func displayUSD(d decimal.Decimal) string {
	cur := money.New(0, money.USD).Currency()
	cents := d.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(cents, money.USD).Display()
}
