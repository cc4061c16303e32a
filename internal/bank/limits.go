// internal/bank/limits.go
//
// 本檔定義金額、利率與手續費可接受的範圍。
// decimal.Decimal 本身沒有上限；超大指數（例如 1e20000000）會讓後續運算
// 在 Registry 鎖內建構巨大的整數，因此所有外部輸入在進入帳戶前先在此檢查。

package bank

import "github.com/shopspring/decimal"

const (
	// maxScale 為小數位數上限（金額、利率、手續費皆同）。
	maxScale = 8
	// maxIntDigits 為整數部分位數上限；絕對值需 < 10^maxIntDigits。
	maxIntDigits = 18
	// minExponent 為可接受的最小指數；更小的值在檢查小數位數前即被拒絕。
	minExponent = -64
	// maxCoefficientBits 限制係數大小（約 38 位十進位數字）。
	maxCoefficientBits = 128
)

var maxMagnitude = decimal.New(1, maxIntDigits)

// inRange 回報 v 是否落在可接受範圍內：
// 絕對值 < 10^18，且小數位數不超過 8 位。
// 指數與係數大小先以常數時間檢查，避免對極端輸入做任何大數運算。
func inRange(v decimal.Decimal) bool {
	if exp := v.Exponent(); exp > maxIntDigits || exp < minExponent {
		return false
	}
	if v.Coefficient().BitLen() > maxCoefficientBits {
		return false
	}
	if !v.Truncate(maxScale).Equal(v) {
		return false
	}
	return v.Abs().LessThan(maxMagnitude)
}
