package contacts

import (
	"fmt"
	"time"

	"datasync/core/endpoint"
	"datasync/core/match"
)

// LocalContact is a contact row in the local database.
type LocalContact struct {
	ID        int       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	RemoteID  *int      `gorm:"column:remote_id;index" json:"remote_id,omitempty"`
	Name      string    `gorm:"column:name;size:255;not null" json:"name"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName returns the name of the table in the database.
func (LocalContact) TableName() string {
	return "contacts"
}

func (c LocalContact) String() string {
	if c.RemoteID == nil {
		return fmt.Sprintf("LocalContact{ID: %d, Name: %q}", c.ID, c.Name)
	}
	return fmt.Sprintf("LocalContact{ID: %d, RemoteID: %d, Name: %q}", c.ID, *c.RemoteID, c.Name)
}

// RemoteContact is a contact object in the remote bucket.
type RemoteContact struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func (c RemoteContact) String() string {
	return fmt.Sprintf("RemoteContact{ID: %d, Name: %q}", c.ID, c.Name)
}

// Match is a correlated local/remote contact pair.
type Match = match.ItemMatch[LocalContact, RemoteContact]

// RequiredColumns lists the columns LocalContact needs in its table.
var RequiredColumns = []string{"id", "remote_id", "name", "updated_at"}

// LocalKey extracts the correlation id of a local contact. Unlinked contacts have none.
func LocalKey(c LocalContact) (int, bool) {
	if c.RemoteID == nil {
		return 0, false
	}
	return *c.RemoteID, true
}

// LocalIdentity extracts the primary key of a local contact.
func LocalIdentity(c LocalContact) (int, bool) {
	return c.ID, c.ID != 0
}

// RemoteKey extracts the id of a remote contact.
func RemoteKey(c RemoteContact) (int, bool) {
	return c.ID, c.ID != 0
}

// Translator converts between local and remote contacts.
type Translator struct{}

var _ endpoint.Translator[LocalContact, RemoteContact] = Translator{}

// Forward copies the shared fields of a local contact onto a remote one.
func (Translator) Forward(source LocalContact, target *RemoteContact) {
	target.Name = source.Name
	if source.RemoteID != nil && target.ID == 0 {
		target.ID = *source.RemoteID
	}
}

// Backward copies a remote contact onto a local one and links it.
func (Translator) Backward(source RemoteContact, target *LocalContact) {
	target.Name = source.Name
	id := source.ID
	target.RemoteID = &id
}
