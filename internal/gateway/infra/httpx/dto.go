package httpx

type AddressDTO struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type PaymentDTO struct {
	Method string `json:"method"`
	Amount int64  `json:"amount"`
}

type CreateOrderRequest struct {
	ProductIDs []string   `json:"product_ids"`
	Address    AddressDTO `json:"address"`
	Payment    PaymentDTO `json:"payment"`
}

type CustomerResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

type ProductResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
}

type OrderResponse struct {
	ID        string            `json:"id"`
	Customer  CustomerResponse  `json:"customer"`
	Products  []ProductResponse `json:"products"`
	Address   AddressDTO        `json:"address"`
	Payment   PaymentDTO        `json:"payment"`
	Status    string            `json:"status"`
	CreatedAt string            `json:"created_at"`
	UpdatedAt string            `json:"updated_at"`
	Version   int64             `json:"version"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
