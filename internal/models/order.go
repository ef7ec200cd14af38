package models

import "strconv"

type Order struct {
	ID            string `json:"id"`
	Product       string `json:"product"`
	Responsible   string `json:"responsible"`
	Quantity      int    `json:"quantity"`
	Status        string `json:"status"`
	EstimatedDate string `json:"estimated_date"`
	Supplies      string `json:"supplies"`
}

func (o Order) SearchFields() []string {
	return []string{o.ID, o.Product, o.Responsible, strconv.Itoa(o.Quantity), o.Status, o.EstimatedDate, o.Supplies}
}
