package services

// Actor identifies who is performing an operation. It is passed
// explicitly into every engine call, never carried in ambient state.
type Actor struct {
	UserID string
	Name   string
	Admin  bool
	System bool
}

// SystemActor marks automated callers such as payment webhooks.
func SystemActor() Actor {
	return Actor{System: true}
}

// Ref returns the actor reference stored on audit rows; nil for system
// actions.
func (a Actor) Ref() *string {
	if a.System || a.UserID == "" {
		return nil
	}
	id := a.UserID
	return &id
}
