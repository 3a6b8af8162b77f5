package component

// RespawnRequest moves a character back to its safe respawn position on the
// next fixed step.
type RespawnRequest struct{}

var RespawnRequestComponent = NewComponent[RespawnRequest]()
