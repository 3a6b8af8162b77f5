package component

// ReloadRequest asks the hot reload system to re-read a prefab from disk.
// Requests live on short-lived entities.
type ReloadRequest struct {
	Path string
}

var ReloadRequestComponent = NewComponent[ReloadRequest]()
