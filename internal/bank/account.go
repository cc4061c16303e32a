// Package bank 定義核心領域模型與帳戶規則。
// 本檔定義 Account 介面與三種帳戶（一般、利息、透支），不含任何 HTTP 細節。

package bank

import "github.com/shopspring/decimal"

// Account is the capability set shared by every account kind.
type Account interface {
	ID() int64
	Owner() string
	Balance() decimal.Decimal
	Kind() Kind

	// Deposit 金額需 > 0，否則回傳 ErrBadAmount 且餘額不變。
	Deposit(amount decimal.Decimal) error
	// Withdraw 金額需 > 0；超過餘額時的行為依種類而定。
	Withdraw(amount decimal.Decimal) error
	Describe() View
}

// ledger 保存所有種類共用的狀態：身分與餘額。
// 種類專屬欄位放在各自的型別中，不透過 ledger 繼承。
type ledger struct {
	id      int64
	owner   string
	balance decimal.Decimal
}

func (l *ledger) ID() int64                { return l.id }
func (l *ledger) Owner() string            { return l.owner }
func (l *ledger) Balance() decimal.Decimal { return l.balance }

// checkAmount 要求金額 > 0 且落在 inRange 範圍內。
func checkAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() || !inRange(amount) {
		return ErrBadAmount
	}
	return nil
}

// Deposit 入帳；入帳後餘額超出範圍時同樣回傳 ErrBadAmount 且不變更。
func (l *ledger) Deposit(amount decimal.Decimal) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	next := l.balance.Add(amount)
	if !next.Abs().LessThan(maxMagnitude) {
		return ErrBadAmount
	}
	l.balance = next
	return nil
}

// Withdraw 為基本提款規則。
func (l *ledger) Withdraw(amount decimal.Decimal) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	return l.debit(amount)
}

// debit 為基本扣款規則：金額超過餘額即 ErrInsufficient，不檢查金額正負。
func (l *ledger) debit(amount decimal.Decimal) error {
	if amount.GreaterThan(l.balance) {
		return ErrInsufficient
	}
	l.balance = l.balance.Sub(amount)
	return nil
}

func (l *ledger) view(k Kind) View {
	return View{ID: l.id, Owner: l.owner, Balance: l.balance, Kind: k}
}

// StandardAccount 無任何特殊規則。
type StandardAccount struct {
	ledger
}

func (a *StandardAccount) Kind() Kind     { return KindStandard }
func (a *StandardAccount) Describe() View { return a.view(KindStandard) }

// InterestAccount 可依利率計息。
type InterestAccount struct {
	ledger
	rate decimal.Decimal
}

func (a *InterestAccount) Kind() Kind            { return KindInterest }
func (a *InterestAccount) Rate() decimal.Decimal { return a.rate }

func (a *InterestAccount) Describe() View {
	v := a.view(KindInterest)
	pct := a.Rate().Mul(decimal.NewFromInt(100))
	v.InterestRatePct = &pct
	return v
}

// ApplyInterest 以 balance * rate 計息並存入，回傳實際入帳的利息。
// 利息四捨五入到 8 位小數；利息 <= 0（利率為 0 或餘額非正）時不做任何變更。
func (a *InterestAccount) ApplyInterest() (decimal.Decimal, error) {
	interest := a.balance.Mul(a.rate).Round(maxScale)
	if !interest.IsPositive() {
		return decimal.Zero, nil
	}
	if err := a.Deposit(interest); err != nil {
		return decimal.Zero, err
	}
	return interest, nil
}

// OverdraftAccount 在提款超過餘額時觸發透支事件。
type OverdraftAccount struct {
	ledger
	fee decimal.Decimal
}

func (a *OverdraftAccount) Kind() Kind           { return KindOverdraft }
func (a *OverdraftAccount) Fee() decimal.Decimal { return a.fee }

func (a *OverdraftAccount) Describe() View {
	v := a.view(KindOverdraft)
	fee := a.Fee()
	v.OverdraftFee = &fee
	return v
}

// Withdraw 在金額不超過餘額時與一般提款相同。
// 超過餘額時為透支事件：先提走全部餘額（歸零），再以基本規則扣手續費。
// 手續費 > 0 時第二步必然失敗；歸零仍然生效，並回傳 *OverdraftError。
func (a *OverdraftAccount) Withdraw(amount decimal.Decimal) error {
	_, err := a.withdraw(amount)
	return err
}

// withdraw 與 Withdraw 相同，另回報是否發生透支事件（不論手續費是否收到）。
func (a *OverdraftAccount) withdraw(amount decimal.Decimal) (overdrawn bool, err error) {
	if err := checkAmount(amount); err != nil {
		return false, err
	}
	if amount.LessThanOrEqual(a.balance) {
		return false, a.debit(amount)
	}
	drained := a.balance
	if err := a.debit(drained); err != nil {
		return true, err
	}
	if err := a.debit(a.fee); err != nil {
		return true, &OverdraftError{AccountID: a.id, Requested: amount, Drained: drained, Fee: a.fee}
	}
	return true, nil
}

// ApplyInterest 對帳戶計息；僅 InterestAccount 適用，其餘回傳 ErrNotApplicable。
func ApplyInterest(a Account) (decimal.Decimal, error) {
	switch acct := a.(type) {
	case *InterestAccount:
		return acct.ApplyInterest()
	default:
		return decimal.Zero, ErrNotApplicable
	}
}

// newAccount 依參數建構對應種類的帳戶；只由 Registry 呼叫。
func newAccount(id int64, owner string, balance decimal.Decimal, p Params) (Account, error) {
	if !inRange(balance) {
		return nil, ErrBadAmount
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	base := ledger{id: id, owner: owner, balance: balance}
	switch p.Kind {
	case KindInterest:
		return &InterestAccount{ledger: base, rate: p.InterestRate}, nil
	case KindOverdraft:
		return &OverdraftAccount{ledger: base, fee: p.OverdraftFee}, nil
	default:
		return &StandardAccount{ledger: base}, nil
	}
}
