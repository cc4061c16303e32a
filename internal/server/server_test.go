// internal/server/server_test.go
//
// 本檔為 server 層的整合測試 (Integration Test)。
// 以 httptest.Server 模擬完整 HTTP 請求流程，驗證 dispatcher 與 bank 層之間的整合、
// 狀態正確性與錯誤代碼映射。
package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-kit/log"
	"github.com/shopspring/decimal"

	"ledger/internal/bank"
)

// doJSON 為測試輔助函式：
// 封裝 HTTP JSON 請求邏輯並自動驗證回傳狀態碼；若 out 非 nil，則解析 JSON 回應。
func doJSON(t *testing.T, c *http.Client, method, url string, body any, wantCode int, out any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantCode {
		t.Fatalf("%s %s code=%d want=%d", method, url, resp.StatusCode, wantCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
}

func newTestServer(t *testing.T) (*httptest.Server, *bank.Registry) {
	t.Helper()
	reg := bank.NewRegistry()
	ts := httptest.NewServer(NewServer(reg, nil).Router())
	t.Cleanup(ts.Close)
	return ts, reg
}

func accountURL(ts *httptest.Server, id int64, op string) string {
	u := ts.URL + "/accounts/" + strconv.FormatInt(id, 10)
	if op != "" {
		u += "/" + op
	}
	return u
}

// TestHTTPFlow 驗證整個 HTTP API 流程：建立、存提款、計息、查詢、關閉。
func TestHTTPFlow(t *testing.T) {
	ts, reg := newTestServer(t)
	cli := ts.Client()

	// 1️⃣ 建立三種帳戶
	var std, sav, chk bank.View
	doJSON(t, cli, "POST", ts.URL+"/accounts", map[string]any{"owner": "Alice", "balance": 100}, 201, &std)
	doJSON(t, cli, "POST", ts.URL+"/accounts", map[string]any{"owner": "Bob", "balance": "100", "kind": "savings", "interest_rate": "0.05"}, 201, &sav)
	doJSON(t, cli, "POST", ts.URL+"/api/v1/accounts", map[string]any{"owner": "Carol", "balance": 50, "kind": "overdraft", "overdraft_fee": 10}, 201, &chk)
	if std.Kind != bank.KindStandard || sav.Kind != bank.KindInterest || chk.Kind != bank.KindOverdraft {
		t.Fatalf("kinds: %s %s %s", std.Kind, sav.Kind, chk.Kind)
	}
	if reg.Len() != 3 {
		t.Fatalf("registry len=%d want 3", reg.Len())
	}

	// 2️⃣ 存提款
	var got bank.View
	doJSON(t, cli, "POST", accountURL(ts, std.ID, "withdraw"), map[string]any{"amount": 30}, 200, &got)
	doJSON(t, cli, "POST", accountURL(ts, std.ID, "deposit"), map[string]any{"amount": "20"}, 200, &got)
	if !got.Balance.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("balance=%s want 90", got.Balance)
	}
	doJSON(t, cli, "POST", accountURL(ts, std.ID, "withdraw"), map[string]any{"amount": 200}, 409, nil)

	// 3️⃣ 計息
	doJSON(t, cli, "POST", accountURL(ts, sav.ID, "interest"), nil, 200, &got)
	if !got.Balance.Equal(decimal.NewFromInt(105)) {
		t.Fatalf("interest balance=%s want 105", got.Balance)
	}
	doJSON(t, cli, "POST", accountURL(ts, std.ID, "interest"), nil, 422, nil)

	// 4️⃣ 透支：409 並附上歸零後的帳戶
	var od struct {
		Error   string    `json:"error"`
		Account bank.View `json:"account"`
	}
	doJSON(t, cli, "POST", accountURL(ts, chk.ID, "withdraw"), map[string]any{"amount": 80}, 409, &od)
	if !od.Account.Balance.IsZero() || !strings.Contains(od.Error, "uncollected") {
		t.Fatalf("overdraft response: %+v", od)
	}

	// 5️⃣ 查詢與列出
	doJSON(t, cli, "GET", accountURL(ts, std.ID, ""), nil, 200, &got)
	if got.Owner != "Alice" || !got.Balance.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("get: %+v", got)
	}
	var all []bank.View
	doJSON(t, cli, "GET", ts.URL+"/accounts", nil, 200, &all)
	if len(all) != 3 || all[0].ID != std.ID {
		t.Fatalf("list: %+v", all)
	}

	// 6️⃣ 關閉後查無帳戶
	doJSON(t, cli, "DELETE", accountURL(ts, std.ID, ""), nil, 204, nil)
	doJSON(t, cli, "GET", accountURL(ts, std.ID, ""), nil, 404, nil)
	doJSON(t, cli, "DELETE", accountURL(ts, std.ID, ""), nil, 404, nil)
}

// TestBadRequests 驗證錯誤輸入的狀態碼。
func TestBadRequests(t *testing.T) {
	ts, _ := newTestServer(t)
	cli := ts.Client()

	var a bank.View
	doJSON(t, cli, "POST", ts.URL+"/accounts", map[string]any{"owner": "A", "balance": 10}, 201, &a)

	// 未知種類 / 負利率
	doJSON(t, cli, "POST", ts.URL+"/accounts", map[string]any{"owner": "B", "kind": "gold"}, 400, nil)
	doJSON(t, cli, "POST", ts.URL+"/accounts", map[string]any{"owner": "B", "kind": "interest", "interest_rate": -1}, 400, nil)

	// 非正金額
	doJSON(t, cli, "POST", accountURL(ts, a.ID, "deposit"), map[string]any{"amount": 0}, 400, nil)
	doJSON(t, cli, "POST", accountURL(ts, a.ID, "withdraw"), map[string]any{"amount": -3}, 400, nil)

	// 非整數 ID、未知 ID
	doJSON(t, cli, "GET", ts.URL+"/accounts/abc", nil, 400, nil)
	doJSON(t, cli, "POST", accountURL(ts, 999, "deposit"), map[string]any{"amount": 1}, 404, nil)

	// JSON 格式錯誤
	req, _ := http.NewRequest("POST", accountURL(ts, a.ID, "deposit"), bytes.NewBufferString("{bad json}"))
	resp, err := cli.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != 400 {
		t.Fatalf("bad json code=%d want 400", resp.StatusCode)
	}

	// 極端金額：指數過大、小數位過多
	doJSON(t, cli, "POST", ts.URL+"/accounts", map[string]any{"owner": "B", "balance": "1e20000000"}, 400, nil)
	doJSON(t, cli, "POST", accountURL(ts, a.ID, "deposit"), map[string]any{"amount": "1e20000000"}, 400, nil)
	doJSON(t, cli, "POST", accountURL(ts, a.ID, "withdraw"), map[string]any{"amount": "0.000000001"}, 400, nil)
	var after bank.View
	doJSON(t, cli, "POST", accountURL(ts, a.ID, "deposit"), map[string]any{"amount": "0.01"}, 200, &after)
	if !after.Balance.Equal(decimal.RequireFromString("10.01")) {
		t.Fatalf("balance after rejected amounts=%s want 10.01", after.Balance)
	}

	// 錯誤方法、未知子路徑
	doJSON(t, cli, "PUT", ts.URL+"/accounts", nil, 405, nil)
	doJSON(t, cli, "GET", accountURL(ts, a.ID, "deposit"), nil, 405, nil)
	doJSON(t, cli, "POST", accountURL(ts, a.ID, "transfer"), nil, 404, nil)
}

// TestRequestLogging 驗證中介層回傳 request id 並寫入日誌。
func TestRequestLogging(t *testing.T) {
	var buf bytes.Buffer
	s := NewServer(bank.NewRegistry(), log.NewLogfmtLogger(&buf))
	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	req, _ := http.NewRequest("GET", ts.URL+"/health", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got != "req-1" {
		t.Fatalf("request id=%q want req-1", got)
	}

	resp, err = ts.Client().Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Fatal("generated request id missing")
	}

	out := buf.String()
	if !strings.Contains(out, "path=/health") || !strings.Contains(out, "request_id=req-1") {
		t.Fatalf("log output: %s", out)
	}
}

// TestDescribeText 驗證 Accept: text/plain 時回傳人類可讀的帳戶資訊。
func TestDescribeText(t *testing.T) {
	ts, _ := newTestServer(t)
	cli := ts.Client()

	var a bank.View
	doJSON(t, cli, "POST", ts.URL+"/accounts", map[string]any{"owner": "Alice", "balance": 90, "kind": "interest", "interest_rate": "0.05"}, 201, &a)

	req, _ := http.NewRequest("GET", accountURL(ts, a.ID, ""), nil)
	req.Header.Set("Accept", "text/plain")
	resp, err := cli.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 || !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain") {
		t.Fatalf("code=%d content-type=%q", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	body, _ := io.ReadAll(resp.Body)
	want := "Account Number: " + strconv.FormatInt(a.ID, 10) + "\nOwner: Alice\nKind: interest\nBalance: $90.00\nInterest Rate: 5%\n"
	if string(body) != want {
		t.Fatalf("body=%q want %q", body, want)
	}
}
