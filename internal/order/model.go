package order

import "time"

// ShippingInfo is the address payload stored with the order. For pickup
// orders the store's own details are substituted at placement time.
type ShippingInfo struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Service    string `json:"service"`
}

// Line is an immutable snapshot of a purchased product. UnitPrice is captured
// at order time and never follows later catalog price changes.
type Line struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unitPrice"`
}

type Order struct {
	ID             string        `json:"orderId"`
	Number         string        `json:"orderNumber"`
	UserID         string        `json:"userId"`
	Status         Status        `json:"status"`
	PaymentStatus  PaymentStatus `json:"paymentStatus"`
	PaymentMethod  string        `json:"paymentMethod"`
	Lines          []Line        `json:"lines"`
	TotalAmount    int64         `json:"totalAmount"`
	ShippingCost   int64         `json:"shippingCost"`
	DiscountAmount int64         `json:"discountAmount"`
	Shipping       ShippingInfo  `json:"shipping"`
	CreatedAt      time.Time     `json:"createdAt"`
}
