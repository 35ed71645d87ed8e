package tenants

// Repo stores gyms on the server side.
type Repo interface {
	Upsert(gym *Gym) error
	Delete(gymID string) error
	Get(gymID string) (*Gym, error)
	ListByOwner(ownerID string) ([]*Gym, error)
}
