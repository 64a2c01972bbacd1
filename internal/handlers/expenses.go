package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/middleware"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/models"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/syncstore"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/pkg/errors"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/pkg/response"
)

// ExpenseHandler manages the shared expense ledger.
type ExpenseHandler struct {
	expenses *syncstore.Collection[models.Expense]
}

func NewExpenseHandler(expenses *syncstore.Collection[models.Expense]) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses}
}

type expenseRequest struct {
	Title    string             `json:"title" validate:"required,max=160"`
	Amount   float64            `json:"amount" validate:"required,gt=0"`
	Currency string             `json:"currency" validate:"omitempty,len=3"`
	Category string             `json:"category" validate:"omitempty,max=40"`
	Date     string             `json:"date" validate:"omitempty,datestr"`
	PaidBy   string             `json:"paid_by" validate:"omitempty,uuid4"`
	Split    map[string]float64 `json:"split"`
	Notes    string             `json:"notes" validate:"omitempty,max=2000"`
}

// GET /api/expenses
func (h *ExpenseHandler) List(c *gin.Context) {
	rows, source := h.expenses.ReadSourced(requestContext(c))
	response.SuccessWithMeta(c, http.StatusOK, rows, &response.Meta{
		Total:  len(rows),
		Source: string(source),
	})
}

// POST /api/expenses
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req expenseRequest
	if !bindAndValidate(c, &req) {
		return
	}

	paidBy := req.PaidBy
	if paidBy == "" {
		paidBy = c.GetString(middleware.CtxUserIDKey)
	}

	expense := models.Expense{
		BaseModel: models.BaseModel{ID: uuid.NewString()},
		Title:     req.Title,
		Amount:    req.Amount,
		Currency:  req.Currency,
		Category:  req.Category,
		Date:      req.Date,
		PaidBy:    paidBy,
		Notes:     req.Notes,
	}

	if len(req.Split) > 0 {
		blob, err := json.Marshal(req.Split)
		if err != nil {
			response.Error(c, errors.NewBadRequest("invalid split"))
			return
		}
		expense.Split = datatypes.JSON(blob)
	}

	created := h.expenses.Write(requestContext(c), expense)
	response.Success(c, http.StatusCreated, created)
}

// PATCH /api/expenses/:id
func (h *ExpenseHandler) Update(c *gin.Context) {
	fields, ok := bindPatchFields(c)
	if !ok {
		return
	}

	updated, err := h.expenses.Patch(requestContext(c), c.Param("id"), fields)
	if err != nil {
		response.Error(c, errors.NewNotFound("expense not found"))
		return
	}

	response.Success(c, http.StatusOK, updated)
}

// DELETE /api/expenses/:id
func (h *ExpenseHandler) Delete(c *gin.Context) {
	h.expenses.Delete(requestContext(c), c.Param("id"))
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
