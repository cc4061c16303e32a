// internal/bank/registry.go

// Package bank 定義核心帳戶規則：帳戶建立、查詢、存提款、計息與關閉。
// Registry 是所有帳戶的唯一擁有者；帳戶只能經由 Create 產生、經由 Close/CloseAll 釋放。
// 金額一律使用 decimal.Decimal，避免浮點誤差。
package bank

import (
	"errors"
	"sort"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/shopspring/decimal"
)

// Registry 為聚合根 (Aggregate Root)：管理全部帳戶。
// - mu：序列化所有經由 Registry 的讀寫。
// - nextID：Registry 自有的遞增計數器，從 1 開始，關閉帳戶後也不重用。
// - accts：帳戶索引表（ID → Account）。
type Registry struct {
	mu     sync.Mutex
	nextID int64
	accts  map[int64]Account
	logger log.Logger
}

// Option 設定 Registry 的選用參數。
type Option func(*Registry)

// WithLogger 指定 Registry 的 logger；預設不輸出。
func WithLogger(logger log.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry 建立空白的 Registry（僅 in-memory 狀態，無外部依賴）。
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		accts:  make(map[int64]Account),
		logger: log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = log.With(r.logger, "component", "registry")
	return r
}

// Create 分配下一個 ID、依 Params 建構帳戶並保存。
// 初始餘額可為負，但需落在 inRange 範圍內；驗證失敗時不消耗 ID。
func (r *Registry) Create(owner string, balance decimal.Decimal, p Params) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, err := newAccount(r.nextID+1, owner, balance, p)
	if err != nil {
		return 0, err
	}
	r.nextID++
	r.accts[a.ID()] = a
	_ = level.Info(r.logger).Log("msg", "account created", "id", a.ID(), "owner", owner, "kind", p.Kind, "balance", balance)
	return a.ID(), nil
}

// Lookup 依 ID 取得帳戶本身（非拷貝），不存在回傳 ErrNotFound。
// 直接操作回傳的帳戶不經過 Registry 的鎖。
func (r *Registry) Lookup(id int64) (Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lookup(id)
}

func (r *Registry) lookup(id int64) (Account, error) {
	a, ok := r.accts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

// Describe 回傳帳戶快照。
func (r *Registry) Describe(id int64) (View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, err := r.lookup(id)
	if err != nil {
		return View{}, err
	}
	return a.Describe(), nil
}

// List 回傳所有帳戶快照，依 ID 排序。
func (r *Registry) List() []View {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]View, 0, len(r.accts))
	for _, a := range r.accts {
		out = append(out, a.Describe())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len 回傳目前帳戶數量。
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.accts)
}

// Deposit 存款並回傳最新快照。
func (r *Registry) Deposit(id int64, amt decimal.Decimal) (View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, err := r.lookup(id)
	if err != nil {
		return View{}, err
	}
	if err := a.Deposit(amt); err != nil {
		return View{}, err
	}
	_ = level.Debug(r.logger).Log("msg", "deposit", "id", id, "amount", amt, "balance", a.Balance())
	return a.Describe(), nil
}

// Withdraw 提款並回傳最新快照。
// 透支且手續費未收時，回傳歸零後的快照與 *OverdraftError。
func (r *Registry) Withdraw(id int64, amt decimal.Decimal) (View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, err := r.lookup(id)
	if err != nil {
		return View{}, err
	}
	before := a.Balance()
	var overdrawn bool
	switch acct := a.(type) {
	case *OverdraftAccount:
		overdrawn, err = acct.withdraw(amt)
	default:
		err = a.Withdraw(amt)
	}
	if overdrawn {
		// 每次透支事件都記錄，手續費為 0 時 err 為 nil
		var oe *OverdraftError
		_ = level.Warn(r.logger).Log("msg", "overdraft", "id", id, "requested", amt, "drained", before,
			"fee_collected", !errors.As(err, &oe), "err", err)
		if err != nil && oe == nil {
			return View{}, err
		}
		return a.Describe(), err
	}
	if err != nil {
		return View{}, err
	}
	_ = level.Debug(r.logger).Log("msg", "withdraw", "id", id, "amount", amt, "balance", a.Balance())
	return a.Describe(), nil
}

// ApplyInterest 對利息帳戶計息並回傳最新快照；其他種類回傳 ErrNotApplicable。
func (r *Registry) ApplyInterest(id int64) (View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, err := r.lookup(id)
	if err != nil {
		return View{}, err
	}
	interest, err := ApplyInterest(a)
	if err != nil {
		return View{}, err
	}
	_ = level.Info(r.logger).Log("msg", "interest applied", "id", id, "interest", interest, "balance", a.Balance())
	return a.Describe(), nil
}

// Close 移除並釋放帳戶；不存在回傳 ErrNotFound。
func (r *Registry) Close(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, err := r.lookup(id)
	if err != nil {
		return err
	}
	delete(r.accts, id)
	r.logClosed(a)
	return nil
}

// CloseAll 釋放所有帳戶（程序結束時使用）。ID 計數器不重置。
func (r *Registry) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accts {
		r.logClosed(a)
	}
	r.accts = make(map[int64]Account)
}

// logClosed 記錄帳戶關閉與最後餘額（以美元格式呈現）。
func (r *Registry) logClosed(a Account) {
	_ = level.Info(r.logger).Log("msg", "account closed", "id", a.ID(), "owner", a.Owner(),
		"kind", a.Kind(), "final_balance", displayUSD(a.Balance()))
}
