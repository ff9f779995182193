package wlshm

import "errors"

// ErrNoMemory is returned by Client.NewObject when the object system cannot register a new object.
var ErrNoMemory = errors.New("no memory")

// Display advertises globals to connecting clients.
type Display interface {
	CreateGlobal(kind ObjectKind, version uint32, bind BindFunc) error // Registers a global bound through bind.
}

// BindFunc is invoked when a client binds a global; id is the new object id chosen by the client.
type BindFunc func(client Client, version, id uint32)

// Client is a single connection as seen by the object system.
type Client interface {
	NewObject(kind ObjectKind, version, id uint32) (Object, error) // Registers an addressable object or fails with ErrNoMemory.
	PostNoMemory()                                                 // Signals an out-of-memory condition to the client.
	String() string                                                // Returns a short client identity for logs.
}

// Object is an addressable protocol object owned by a Client.
type Object interface {
	Client() Client                                                // Returns the owning client.
	ID() uint32                                                    // Returns the client-chosen object id.
	Kind() ObjectKind                                              // Returns the object's interface kind.
	Version() uint32                                               // Returns the bound interface version.
	SetImplementation(impl Implementation, onDestroy func(Object)) // Installs request handlers and a destroy hook.
	Implementation() Implementation                                // Returns the installed handlers, nil if none.
	Destroy()                                                      // Invalidates the id and runs the destroy hook once.
	PostError(code ErrorCode, msg string)                          // Reports a protocol error against this object.
	PostEvent(ev Event)                                            // Queues an event for the client.
}

// Implementation handles requests addressed to an Object.
// Only the shm package provides implementations, one per ObjectKind.
type Implementation interface {
	Kind() ObjectKind                 // Returns the object kind this implementation serves.
	Dispatch(obj Object, req Request) // Handles one request; failures are posted, never returned.
}
