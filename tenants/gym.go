package tenants

import (
	"encoding/json"

	"github.com/jrsteele09/gymflow/internal/utils"
)

// Gym is a tenant: an isolated membership-management workspace owned by one account.
// The server owns the record; clients only persist the id of the active one.
type Gym struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zip_code,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`

	OwnerID string `json:"-"` // server side only
}

// UnmarshalJSON accepts numeric or string ids.
func (g *Gym) UnmarshalJSON(data []byte) error {
	type plain Gym
	aux := struct {
		*plain
		ID json.RawMessage `json:"id"`
	}{plain: (*plain)(g)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	g.ID = utils.IDString(aux.ID)
	return nil
}

// GymInput is the payload collected by the gym setup form.
type GymInput struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zip_code,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
}

// Gym converts the input into a Gym owned by ownerID. The id is assigned on store.
func (in GymInput) Gym(ownerID string) *Gym {
	return &Gym{
		Name:    in.Name,
		Address: in.Address,
		City:    in.City,
		State:   in.State,
		ZipCode: in.ZipCode,
		Phone:   in.Phone,
		Email:   in.Email,
		OwnerID: ownerID,
	}
}

// FindByID returns the gym with the given id, or nil.
func FindByID(gyms []Gym, id string) *Gym {
	for i := range gyms {
		if gyms[i].ID == id {
			return &gyms[i]
		}
	}
	return nil
}
