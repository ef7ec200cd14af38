package models

import "strconv"

// Material is a supply tracked apart from the product stock (packaging,
// bottles...). It can be assigned to one user.
type Material struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Type           string `json:"type"`
	Description    string `json:"description"`
	Quantity       int    `json:"quantity"`
	Unit           string `json:"unit"`
	AssignedUserID int    `json:"assigned_user_id,omitempty"`
}

func (m Material) SearchFields() []string {
	return []string{strconv.Itoa(m.ID), m.Name, m.Type, m.Description, strconv.Itoa(m.Quantity), m.Unit}
}
