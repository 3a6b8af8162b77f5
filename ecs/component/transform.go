package component

import "github.com/milk9111/kcc/kcc"

// Transform is the world pose of an entity.
type Transform = kcc.Transform

var TransformComponent = NewComponent[Transform]()

// PreviousTransform is the pose at the start of the current fixed step.
// Moving platforms use it to work out how far they carried their riders.
type PreviousTransform kcc.Transform

var PreviousTransformComponent = NewComponent[PreviousTransform]()
