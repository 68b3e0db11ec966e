package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"myfinance/internal/models"
	"myfinance/internal/report"
	"myfinance/internal/store"
	"myfinance/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// TransactionHandler serves /transactions and the summaries.
type TransactionHandler struct {
	Transactions *store.TransactionStore
}

func NewTransactionHandler(transactions *store.TransactionStore) *TransactionHandler {
	return &TransactionHandler{Transactions: transactions}
}

// ---------- request / response ----------

type createTransactionReq struct {
	Amount      json.RawMessage        `json:"amount"`
	Description string                 `json:"description" binding:"required"`
	Date        string                 `json:"date" binding:"required"`
	Type        models.TransactionType `json:"type" binding:"required,oneof=income expense"`
	Notes       *string                `json:"notes"`
	CategoryID  *uint                  `json:"categoryId"`
}

type updateTransactionReq struct {
	Amount      json.RawMessage         `json:"amount"`
	Description *string                 `json:"description"`
	Date        *string                 `json:"date"`
	Type        *models.TransactionType `json:"type"`
	Notes       util.Optional[string]   `json:"notes"`
	CategoryID  util.Optional[uint]     `json:"categoryId"`
}

type transactionResp struct {
	ID          uint                   `json:"id"`
	Amount      models.Money           `json:"amount"`
	Description string                 `json:"description"`
	Date        string                 `json:"date"`
	Type        models.TransactionType `json:"type"`
	Notes       *string                `json:"notes"`
	CategoryID  *uint                  `json:"categoryId"`
	Category    *categoryResp          `json:"category"`
	CreatedAt   time.Time              `json:"createdAt"`
}

func toTransactionResp(rec *store.TransactionRecord) transactionResp {
	resp := transactionResp{
		ID:          rec.ID,
		Amount:      models.Money(rec.AmountCents),
		Description: rec.Description,
		Date:        rec.Date,
		Type:        rec.Type,
		Notes:       rec.Notes,
		CategoryID:  rec.CategoryID,
		CreatedAt:   rec.CreatedAt,
	}
	if rec.Category != nil {
		cr := toCategoryResp(rec.Category)
		resp.Category = &cr
	}
	return resp
}

// ---------- parsing ----------

// parseAmount accepts a JSON number only; quoted amounts are rejected.
func parseAmount(raw json.RawMessage) (int64, error) {
	if len(raw) == 0 {
		return 0, util.Validation("amount is required")
	}
	if raw[0] == '"' || bytes.Equal(raw, []byte("null")) {
		return 0, util.Validation("amount must be a number")
	}
	d, err := decimal.NewFromString(string(raw))
	if err != nil {
		return 0, util.Validation("amount must be a number")
	}
	cents, err := util.ParseAmount(d)
	if err != nil {
		return 0, util.Validation(err.Error())
	}
	return cents, nil
}

func parseDate(s string) (string, error) {
	if err := util.ValidateDate(s); err != nil {
		return "", util.Validation(err.Error())
	}
	return s, nil
}

// parseFilter reads type, categoryId, startDate and endDate from the query.
func parseFilter(c *gin.Context) (store.TransactionFilter, error) {
	var f store.TransactionFilter

	if t := c.Query("type"); t != "" {
		typ := models.TransactionType(t)
		if !typ.Valid() {
			return f, util.Validation("type must be income or expense")
		}
		f.Type = typ
	}
	if s := c.Query("categoryId"); s != "" {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return f, util.Validation("categoryId must be a positive integer")
		}
		f.CategoryID = uint(id)
	}

	start, end, err := parseDateRange(c)
	if err != nil {
		return f, err
	}
	f.StartDate, f.EndDate = start, end
	return f, nil
}

func parseDateRange(c *gin.Context) (string, string, error) {
	start, end := c.Query("startDate"), c.Query("endDate")
	if start != "" {
		if err := util.ValidateDate(start); err != nil {
			return "", "", util.Validation("startDate: " + err.Error())
		}
	}
	if end != "" {
		if err := util.ValidateDate(end); err != nil {
			return "", "", util.Validation("endDate: " + err.Error())
		}
	}
	return start, end, nil
}

// ---------- handlers ----------

func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	id, ok := owner(c)
	if !ok {
		return
	}

	var req createTransactionReq
	if !bindJSON(c, &req) {
		return
	}

	cents, err := parseAmount(req.Amount)
	if err != nil {
		util.Fail(c, err)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		util.Fail(c, err)
		return
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		util.Fail(c, util.Validation("description is required"))
		return
	}

	txn := models.Transaction{
		AmountCents: cents,
		Description: description,
		Date:        date,
		Type:        req.Type,
		Notes:       req.Notes,
	}
	if req.CategoryID != nil && *req.CategoryID != 0 {
		txn.CategoryID = req.CategoryID
	}

	rec, err := h.Transactions.Create(c.Request.Context(), id.ID, &txn)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, http.StatusCreated, toTransactionResp(rec))
}

// ListTransactions supports ?type=&categoryId=&startDate=&endDate=, newest first.
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	id, ok := owner(c)
	if !ok {
		return
	}
	f, err := parseFilter(c)
	if err != nil {
		util.Fail(c, err)
		return
	}

	recs, err := h.Transactions.List(c.Request.Context(), id.ID, f)
	if err != nil {
		util.Fail(c, err)
		return
	}
	out := make([]transactionResp, 0, len(recs))
	for i := range recs {
		out = append(out, toTransactionResp(&recs[i]))
	}
	util.Success(c, http.StatusOK, out)
}

func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	id, ok := owner(c)
	if !ok {
		return
	}
	txnID, ok := pathID(c)
	if !ok {
		return
	}

	rec, err := h.Transactions.Get(c.Request.Context(), txnID, id.ID)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, http.StatusOK, toTransactionResp(rec))
}

func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	id, ok := owner(c)
	if !ok {
		return
	}
	txnID, ok := pathID(c)
	if !ok {
		return
	}

	var req updateTransactionReq
	if !bindJSON(c, &req) {
		return
	}

	patch := store.TransactionPatch{Notes: req.Notes, CategoryID: req.CategoryID}
	if len(req.Amount) > 0 {
		cents, err := parseAmount(req.Amount)
		if err != nil {
			util.Fail(c, err)
			return
		}
		patch.AmountCents = &cents
	}
	if req.Description != nil {
		d := strings.TrimSpace(*req.Description)
		if d == "" {
			util.Fail(c, util.Validation("description must not be empty"))
			return
		}
		patch.Description = &d
	}
	if req.Date != nil {
		d, err := parseDate(*req.Date)
		if err != nil {
			util.Fail(c, err)
			return
		}
		patch.Date = &d
	}
	if req.Type != nil {
		if !req.Type.Valid() {
			util.Fail(c, util.Validation("type must be income or expense"))
			return
		}
		patch.Type = req.Type
	}
	if patch.CategoryID.Set && !patch.CategoryID.Null && patch.CategoryID.Value == 0 {
		util.Fail(c, util.Validation("categoryId must be a positive integer or null"))
		return
	}

	rec, err := h.Transactions.Update(c.Request.Context(), txnID, id.ID, patch)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, http.StatusOK, toTransactionResp(rec))
}

func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	id, ok := owner(c)
	if !ok {
		return
	}
	txnID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.Transactions.Delete(c.Request.Context(), txnID, id.ID); err != nil {
		util.Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetSummary returns total income, total expense and balance.
func (h *TransactionHandler) GetSummary(c *gin.Context) {
	id, ok := owner(c)
	if !ok {
		return
	}

	rows, err := h.Transactions.ReportRows(c.Request.Context(), id.ID, "", "")
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, http.StatusOK, report.Summarize(rows))
}

// GetSummaryByCategory groups income and expense by category, optionally
// limited to ?startDate=&endDate=.
func (h *TransactionHandler) GetSummaryByCategory(c *gin.Context) {
	id, ok := owner(c)
	if !ok {
		return
	}
	start, end, err := parseDateRange(c)
	if err != nil {
		util.Fail(c, err)
		return
	}

	rows, err := h.Transactions.ReportRows(c.Request.Context(), id.ID, start, end)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, http.StatusOK, report.ByCategory(rows))
}
