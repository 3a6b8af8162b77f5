package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

type CameraTag struct{}

var CameraTagComponent = NewComponent[CameraTag]()

// GhostTag marks entities that replay a demo and never collide.
type GhostTag struct{}

var GhostTagComponent = NewComponent[GhostTag]()

// Frozen stops the movement and recorder systems from touching an entity.
type Frozen struct{}

var FrozenComponent = NewComponent[Frozen]()
