// internal/server/handler.go
//
// Package server
// ─────────────────────────────────────────────
// 提供 HTTP RESTful 介面，作為 bank 模組的 dispatcher。
// 每個 handler 僅負責：
//  1. 解析路徑與 JSON 請求
//  2. 呼叫 bank.Registry 執行帳戶規則
//  3. 回傳標準化 JSON 回應（錯誤碼映射集中於 response.go）
package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-kit/log"
	"github.com/shopspring/decimal"

	"ledger/internal/bank"
)

// Server 為 HTTP 層核心結構：
// - Registry：注入帳戶核心。
// - logger：請求日誌。
type Server struct {
	Registry *bank.Registry
	logger   log.Logger
}

// NewServer 建立新的 HTTP 伺服器；logger 可為 nil。
func NewServer(r *bank.Registry, logger log.Logger) *Server {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Server{Registry: r, logger: log.With(logger, "component", "http")}
}

type createRequest struct {
	Owner        string          `json:"owner"`
	Balance      decimal.Decimal `json:"balance"`
	Kind         bank.Kind       `json:"kind"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	OverdraftFee decimal.Decimal `json:"overdraft_fee"`
}

type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// accounts 處理：
//   - POST /accounts  → 建立帳戶
//   - GET  /accounts  → 列出所有帳戶
func (s *Server) accounts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req createRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeErr(w, err, http.StatusBadRequest)
			return
		}
		// kind 省略時視為一般帳戶
		if req.Kind == 0 {
			req.Kind = bank.KindStandard
		}
		id, err := s.Registry.Create(req.Owner, req.Balance, bank.Params{
			Kind:         req.Kind,
			InterestRate: req.InterestRate,
			OverdraftFee: req.OverdraftFee,
		})
		if err != nil {
			writeErr(w, err, statusFor(err))
			return
		}
		v, err := s.Registry.Describe(id)
		if err != nil {
			writeErr(w, err, statusFor(err))
			return
		}
		writeJSON(w, http.StatusCreated, v)

	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.Registry.List())
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// accountSubroutes 處理子路徑：
//
//	GET    /accounts/{id}           → 查詢帳戶（JSON 或 text/plain）
//	DELETE /accounts/{id}           → 關閉帳戶
//	POST   /accounts/{id}/deposit   → 存款
//	POST   /accounts/{id}/withdraw  → 提款
//	POST   /accounts/{id}/interest  → 計息（僅利息帳戶）
func (s *Server) accountSubroutes(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/accounts/")
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 0 || parts[0] == "" || len(parts) > 2 {
		http.NotFound(w, r)
		return
	}
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		writeErr(w, errors.New("account id must be an integer"), http.StatusBadRequest)
		return
	}

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			v, err := s.Registry.Describe(id)
			if err != nil {
				writeErr(w, err, statusFor(err))
				return
			}
			// Accept: text/plain 時回傳人類可讀的帳戶資訊
			if wantsText(r) {
				writeText(w, http.StatusOK, v.String())
				return
			}
			writeJSON(w, http.StatusOK, v)
		case http.MethodDelete:
			if err := s.Registry.Close(id); err != nil {
				writeErr(w, err, statusFor(err))
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	switch parts[1] {
	case "deposit":
		var req amountRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeErr(w, err, http.StatusBadRequest)
			return
		}
		v, err := s.Registry.Deposit(id, req.Amount)
		if err != nil {
			writeErr(w, err, statusFor(err))
			return
		}
		writeJSON(w, http.StatusOK, v)

	case "withdraw":
		var req amountRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeErr(w, err, http.StatusBadRequest)
			return
		}
		v, err := s.Registry.Withdraw(id, req.Amount)
		if errors.Is(err, bank.ErrFeeUncollected) {
			// 透支：餘額已歸零，一併回傳最新帳戶狀態
			writeJSON(w, http.StatusConflict, map[string]any{
				"error":   err.Error(),
				"account": v,
			})
			return
		}
		if err != nil {
			writeErr(w, err, statusFor(err))
			return
		}
		writeJSON(w, http.StatusOK, v)

	case "interest":
		v, err := s.Registry.ApplyInterest(id)
		if err != nil {
			writeErr(w, err, statusFor(err))
			return
		}
		writeJSON(w, http.StatusOK, v)

	default:
		http.NotFound(w, r)
	}
}

// health 提供健康檢查端點：GET /health。
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
