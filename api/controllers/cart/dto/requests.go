package dto

// BulkUpdateRequest is the JSON form of the cart quantity form. Values may
// be numbers or numeric strings.
type BulkUpdateRequest struct {
	ItemQuantity map[string]any `json:"ItemQuantity" validate:"required"`
}

// ReceiverInfoRequest replaces the receiver details stored on the cart.
type ReceiverInfoRequest struct {
	Fields map[string]string `json:"fields" validate:"required,max=50,dive,keys,required,max=64,printascii,endkeys,max=1024"`
}
