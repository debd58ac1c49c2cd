package credentials

// Repo persists the single credential pair. Implementations must write both
// tokens in one operation so readers never observe half of a pair.
type Repo interface {
	// Get returns the stored credential, or a zero Credential when none is stored
	Get() (Credential, error)

	// Set replaces the stored pair
	Set(cred Credential) error

	// Clear removes both tokens. Clearing an empty store is not an error.
	Clear() error
}
