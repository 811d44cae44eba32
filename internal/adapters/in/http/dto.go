package http

import (
	"time"

	"takeout/internal/core/application/usecases/commands"
	"takeout/internal/core/application/usecases/queries"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type SubmitOrderRequest struct {
	AddressBookID  int64  `json:"addressBookId"`
	PayMethod      int    `json:"payMethod"`
	PackagingFee   string `json:"packagingFee"`
	Remark         string `json:"remark"`
	TablewareCount int    `json:"tablewareCount"`
}

type OrderSummaryResponse struct {
	ID          string    `json:"id"`
	OrderNumber string    `json:"orderNumber"`
	OrderTime   time.Time `json:"orderTime"`
	OrderAmount string    `json:"orderAmount"`
}

type PaymentNotifyRequest struct {
	OrderNumber string `json:"orderNumber"`
}

type ReasonRequest struct {
	Reason string `json:"reason"`
}

type StatisticsResponse struct {
	ToBeConfirmed      int64 `json:"toBeConfirmed"`
	Confirmed          int64 `json:"confirmed"`
	DeliveryInProgress int64 `json:"deliveryInProgress"`
}

type OrderResponse struct {
	ID              string     `json:"id"`
	Number          string     `json:"number"`
	UserID          int64      `json:"userId"`
	Status          string     `json:"status"`
	PayStatus       string     `json:"payStatus"`
	PayMethod       string     `json:"payMethod"`
	Amount          string     `json:"amount"`
	PackagingFee    string     `json:"packagingFee"`
	Consignee       string     `json:"consignee"`
	Phone           string     `json:"phone"`
	Address         string     `json:"address"`
	Remark          string     `json:"remark,omitempty"`
	TablewareCount  int        `json:"tablewareCount"`
	OrderTime       time.Time  `json:"orderTime"`
	CheckoutTime    *time.Time `json:"checkoutTime,omitempty"`
	CancelTime      *time.Time `json:"cancelTime,omitempty"`
	DeliveryTime    *time.Time `json:"deliveryTime,omitempty"`
	CancelReason    string     `json:"cancelReason,omitempty"`
	RejectionReason string     `json:"rejectionReason,omitempty"`
	OrderDishes     string     `json:"orderDishes"`
}

type LineItemResponse struct {
	Name      string `json:"name"`
	Image     string `json:"image,omitempty"`
	DishID    *int64 `json:"dishId,omitempty"`
	SetmealID *int64 `json:"setmealId,omitempty"`
	Flavor    string `json:"flavor,omitempty"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
	Subtotal  string `json:"subtotal"`
}

type OrderDetailResponse struct {
	OrderResponse
	LineItems []LineItemResponse `json:"lineItems"`
}

type OrderPageResponse struct {
	Total   int64           `json:"total"`
	Records []OrderResponse `json:"records"`
}

func toSummaryResponse(s commands.OrderSummary) OrderSummaryResponse {
	return OrderSummaryResponse{
		ID:          s.ID.String(),
		OrderNumber: s.Number.String(),
		OrderTime:   s.OrderTime,
		OrderAmount: s.Amount.String(),
	}
}

func toOrderResponse(v queries.OrderView) OrderResponse {
	return OrderResponse{
		ID:              v.ID.String(),
		Number:          v.Number,
		UserID:          v.UserID,
		Status:          v.Status.String(),
		PayStatus:       v.PayStatus.String(),
		PayMethod:       v.PayMethod.String(),
		Amount:          v.Amount.String(),
		PackagingFee:    v.PackagingFee.String(),
		Consignee:       v.Consignee,
		Phone:           v.Phone,
		Address:         v.Address,
		Remark:          v.Remark,
		TablewareCount:  v.TablewareCount,
		OrderTime:       v.OrderTime,
		CheckoutTime:    v.CheckoutTime,
		CancelTime:      v.CancelTime,
		DeliveryTime:    v.DeliveryTime,
		CancelReason:    v.CancelReason,
		RejectionReason: v.RejectionReason,
		OrderDishes:     v.DishSummary,
	}
}

func toDetailResponse(d queries.OrderDetail) OrderDetailResponse {
	items := make([]LineItemResponse, len(d.LineItems))
	for i, item := range d.LineItems {
		items[i] = LineItemResponse{
			Name:      item.Name,
			Image:     item.Image,
			DishID:    item.DishID,
			SetmealID: item.SetmealID,
			Flavor:    item.Flavor,
			UnitPrice: item.UnitPrice.String(),
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal.String(),
		}
	}
	return OrderDetailResponse{OrderResponse: toOrderResponse(d.OrderView), LineItems: items}
}

func toPageResponse(p queries.OrderPage) OrderPageResponse {
	records := make([]OrderResponse, len(p.Orders))
	for i, o := range p.Orders {
		records[i] = toOrderResponse(o)
	}
	return OrderPageResponse{Total: p.Total, Records: records}
}
