package component

// TTL destroys its entity after the given number of frames.
type TTL struct {
	Frames int
}

var TTLComponent = NewComponent[TTL]()

// Notice is a short HUD message, normally paired with a TTL.
type Notice struct {
	Text string
}

var NoticeComponent = NewComponent[Notice]()
