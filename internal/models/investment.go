package models

import (
	"time"

	"github.com/shopspring/decimal"

	"sheetfolio/internal/dates"
	apperrors "sheetfolio/internal/errors"
	"sheetfolio/internal/money"
	"sheetfolio/internal/store"
)

// Action is the kind of an investment transaction.
type Action string

const (
	ActionDeposit  Action = "Deposit"
	ActionWithdraw Action = "Withdraw"
	ActionBuy      Action = "Buy"
	ActionSell     Action = "Sell"
)

// ValidAction reports whether s is one of the four transaction actions.
func ValidAction(s string) bool {
	switch Action(s) {
	case ActionDeposit, ActionWithdraw, ActionBuy, ActionSell:
		return true
	}
	return false
}

// Investment worksheet columns.
const (
	ColInvID       = "ID"
	ColInvDate     = "Date"
	ColInvAction   = "Action"
	ColInvAsset    = "Asset"
	ColInvCategory = "Category"
	ColInvQuantity = "Quantity"
	ColInvPrice    = "Unit Price"
	ColInvAmount   = "Total Amount"
	ColInvNote     = "Note"
)

// Investment is one entry of the append-only transaction log. Entries are
// never mutated by the engine, only appended (and edited/removed through the
// record management endpoints).
type Investment struct {
	ID       string           `json:"id"`
	Date     time.Time        `json:"-"`
	Action   Action           `json:"action"`
	Name     string           `json:"name"`
	Category string           `json:"category"`
	Quantity *decimal.Decimal `json:"quantity,omitempty"`
	Price    *decimal.Decimal `json:"price,omitempty"`
	Amount   decimal.Decimal  `json:"amount"`
	Note     string           `json:"note,omitempty"`

	RowIndex int `json:"-"`
}

// InvestmentFromRow parses an Investment worksheet row, failing fast with a
// FORMAT_ERROR that names the offending cell.
func InvestmentFromRow(row store.Row) (Investment, error) {
	date, err := dates.Parse(row.Get(ColInvDate))
	if err != nil {
		return Investment{}, apperrors.Format(store.TableInvestment, row.Index, ColInvDate, row.Get(ColInvDate))
	}

	action := row.Get(ColInvAction)
	if !ValidAction(action) {
		return Investment{}, apperrors.Format(store.TableInvestment, row.Index, ColInvAction, action)
	}

	amount, err := money.Parse(row.Get(ColInvAmount))
	if err != nil {
		return Investment{}, apperrors.Format(store.TableInvestment, row.Index, ColInvAmount, row.Get(ColInvAmount))
	}

	quantity, err := optionalAmount(row, ColInvQuantity, store.TableInvestment)
	if err != nil {
		return Investment{}, err
	}
	price, err := optionalAmount(row, ColInvPrice, store.TableInvestment)
	if err != nil {
		return Investment{}, err
	}

	category := row.Get(ColInvCategory)
	if category == "" {
		category = CategoryUncategorized
	}

	return Investment{
		ID:       row.Get(ColInvID),
		Date:     date,
		Action:   Action(action),
		Name:     row.Get(ColInvAsset),
		Category: category,
		Quantity: quantity,
		Price:    price,
		Amount:   amount,
		Note:     row.Get(ColInvNote),
		RowIndex: row.Index,
	}, nil
}

// SheetRow renders the record in worksheet column order.
func (i Investment) SheetRow() []string {
	quantity, price := "", ""
	if i.Quantity != nil {
		quantity = money.Format(*i.Quantity)
	}
	if i.Price != nil {
		price = money.Format(*i.Price)
	}
	return []string{
		i.ID,
		dates.FormatDate(i.Date),
		string(i.Action),
		i.Name,
		i.Category,
		quantity,
		price,
		money.Format(i.Amount),
		i.Note,
	}
}

// IsCashFlow reports whether the transaction moves money in or out of the
// portfolio (Deposit/Withdraw).
func (i Investment) IsCashFlow() bool {
	return i.Action == ActionDeposit || i.Action == ActionWithdraw
}

// IsTrade reports whether the transaction trades within the portfolio
// (Buy/Sell).
func (i Investment) IsTrade() bool {
	return i.Action == ActionBuy || i.Action == ActionSell
}

// FlowAmount is the signed external cash flow: positive for deposits,
// negative for withdrawals, zero for trades.
func (i Investment) FlowAmount() decimal.Decimal {
	switch i.Action {
	case ActionDeposit:
		return i.Amount.Abs()
	case ActionWithdraw:
		return i.Amount.Abs().Neg()
	}
	return decimal.Zero
}

// NetEffect is the signed effect on the category's holdings: positive for
// Deposit/Buy, negative for Withdraw/Sell.
func (i Investment) NetEffect() decimal.Decimal {
	switch i.Action {
	case ActionDeposit, ActionBuy:
		return i.Amount.Abs()
	case ActionWithdraw, ActionSell:
		return i.Amount.Abs().Neg()
	}
	return decimal.Zero
}

// optionalAmount parses a cell that may legitimately be empty (quantity and
// unit price are blank for cash-flow rows).
func optionalAmount(row store.Row, column, table string) (*decimal.Decimal, error) {
	raw := row.Get(column)
	if raw == "" {
		return nil, nil
	}
	d, err := money.Parse(raw)
	if err != nil {
		return nil, apperrors.Format(table, row.Index, column, raw)
	}
	return &d, nil
}
