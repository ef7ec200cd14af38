package models

// Provider (proveedor) has no id of its own; it is addressed by its position in the list.
type Provider struct {
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	Address         string `json:"address"`
	ProductsOffered string `json:"products_offered"`
	Status          string `json:"status"`
}

func (p Provider) SearchFields() []string {
	return []string{p.Name, p.Phone, p.Email, p.Address, p.ProductsOffered, p.Status}
}
