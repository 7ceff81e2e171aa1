package model

// Item is the single persisted entity: a database-assigned id and a name.
// ID is zero until the row has been read back from storage.
type Item struct {
	ID   int64
	Name string
}
