package members

// Repo stores members per gym on the server side. Stored members carry no DaysLeft;
// it is computed when a member is served.
type Repo interface {
	Upsert(gymID string, member *Member) error
	Delete(gymID, memberID string) error
	Get(gymID, memberID string) (*Member, error)
	ListByGym(gymID string) ([]*Member, error)
}
