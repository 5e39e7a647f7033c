package model

// 注文者・配送先の入力
type CustomerDetails struct {
	CustomerEmail   string `json:"customer_email"`
	CustomerName    string `json:"customer_name"`
	CustomerPhone   string `json:"customer_phone"`
	ShippingAddress string `json:"shipping_address"`
	ShippingCity    string `json:"shipping_city"`
	ShippingState   string `json:"shipping_state"`
	ShippingZip     string `json:"shipping_zip"`
	ShippingCountry string `json:"shipping_country"`
	Notes           string `json:"notes,omitempty"`
}

// 注文明細（商品IDまたはバリアントID＋数量）
type OrderLine struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// バックエンドの注文作成APIに送る形
type OrderRequest struct {
	CustomerDetails
	Items []OrderLine `json:"items"`
}

// 注文作成の成功レスポンス
type OrderConfirmation struct {
	ID            string `json:"id"`
	OrderNumber   string `json:"order_number"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	Subtotal      int64  `json:"subtotal"`
	Total         int64  `json:"total"`
}
