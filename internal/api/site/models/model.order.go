package models

// OrderStatus là trạng thái đơn hàng nhà hàng
type OrderStatus string

// Các trạng thái đơn hàng
const (
	OrderPending   OrderStatus = "oczekuje"
	OrderPreparing OrderStatus = "w przygotowaniu"
	OrderReady     OrderStatus = "gotowe"
	OrderDelivered OrderStatus = "wydane"
)

// OrderStatusAll là giá trị filter wildcard
const OrderStatusAll = "all"

// OrderStatuses liệt kê các trạng thái theo thứ tự xử lý
var OrderStatuses = []OrderStatus{OrderPending, OrderPreparing, OrderReady, OrderDelivered}

// Valid kiểm tra status thuộc enum
func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// CSSClass trả về class hiển thị badge của status
func (s OrderStatus) CSSClass() string {
	switch s {
	case OrderPreparing:
		return "status-progress"
	case OrderReady:
		return "status-ready"
	case OrderDelivered:
		return "status-delivered"
	}
	return "status-pending"
}

// RestaurantOrder là đơn hàng nhà hàng (orders).
type RestaurantOrder struct {
	ID     *int64      `json:"id,omitempty" bson:"id,omitempty"`
	Number string      `json:"number" bson:"number" validate:"not_blank"`
	Status OrderStatus `json:"status" bson:"status" validate:"order_status"`
}

// Field trả về giá trị field theo tên JSON
func (o RestaurantOrder) Field(key string) any {
	switch key {
	case "id":
		if o.ID == nil {
			return nil
		}
		return *o.ID
	case "number":
		return o.Number
	case "status":
		return string(o.Status)
	}
	return nil
}

// RemoteID trả về id do database cấp (nếu có)
func (o RestaurantOrder) RemoteID() (int64, bool) {
	if o.ID == nil {
		return 0, false
	}
	return *o.ID, true
}
